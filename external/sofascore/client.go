package sofascore

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/fasthttp"

	"github.com/riskibarqy/matchday-feed/internal/domain/enrichment"
	"github.com/riskibarqy/matchday-feed/internal/domain/match"
	"github.com/riskibarqy/matchday-feed/internal/platform/logging"
	"github.com/riskibarqy/matchday-feed/internal/platform/resilience"
	"github.com/riskibarqy/matchday-feed/internal/usecase"
)

const (
	defaultBaseURL         = "https://api.sofascore.com/api/v1"
	defaultScheduleBaseURL = "https://www.sofascore.com/api/v1"
	defaultSport           = "football"
	defaultTimeout         = 15 * time.Second
	maxResponseBodySize    = 8 << 20
)

var (
	errProviderTransient = crerr.New("sofascore transient failure")

	// ErrUnexpectedStatus marks any non-200 response; the body is never used as a payload.
	ErrUnexpectedStatus = crerr.New("sofascore unexpected status")
)

type ClientConfig struct {
	HTTPClient      *fasthttp.Client
	BaseURL         string
	ScheduleBaseURL string
	Sport           string
	UserAgent       string
	Timeout         time.Duration
	Logger          *logging.Logger
	// Guards the schedule endpoints only. Enrichment fetches are never short-circuited.
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient      *fasthttp.Client
	baseURL         string
	scheduleBaseURL string
	sport           string
	userAgent       string
	timeout         time.Duration
	logger          *logging.Logger
	breaker         *resilience.CircuitBreaker
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			Name:                     "matchday-feed",
			ReadTimeout:              timeout,
			WriteTimeout:             timeout,
			MaxConnsPerHost:          64,
			MaxResponseBodySize:      maxResponseBodySize,
			NoDefaultUserAgentHeader: true,
		}
	}

	return &Client{
		httpClient:      httpClient,
		baseURL:         trimBaseURL(cfg.BaseURL, defaultBaseURL),
		scheduleBaseURL: trimBaseURL(cfg.ScheduleBaseURL, defaultScheduleBaseURL),
		sport:           firstNonEmpty(strings.TrimSpace(cfg.Sport), defaultSport),
		userAgent:       strings.TrimSpace(cfg.UserAgent),
		timeout:         timeout,
		logger:          logger,
		breaker:         resilience.NewCircuitBreaker(cfg.CircuitBreaker),
	}
}

// FetchEnrichment returns the raw payload of one kind for one event. Any non-200 response is an error.
func (c *Client) FetchEnrichment(ctx context.Context, matchID int64, kind enrichment.Kind) (enrichment.Payload, error) {
	if matchID <= 0 {
		return nil, fmt.Errorf("%w: match id must be greater than zero", usecase.ErrInvalidInput)
	}
	if !kind.Valid() {
		return nil, crerr.Wrapf(enrichment.ErrUnknownKind, "%q", kind)
	}

	fullURL := fmt.Sprintf("%s/event/%d/%s", c.baseURL, matchID, kind.Path())
	raw, err := c.get(ctx, fullURL)
	if err != nil {
		return nil, crerr.Wrapf(err, "fetch %s match_id=%d", kind, matchID)
	}

	payload, err := enrichment.NewPayload(raw)
	if err != nil {
		return nil, crerr.Wrapf(err, "decode %s match_id=%d", kind, matchID)
	}
	return payload, nil
}

// FetchScheduledEventIDs lists the provider's events for the UTC calendar date of day.
func (c *Client) FetchScheduledEventIDs(ctx context.Context, day time.Time) ([]int64, error) {
	fullURL := fmt.Sprintf("%s/sport/%s/scheduled-events/%s", c.scheduleBaseURL, c.sport, day.UTC().Format(time.DateOnly))

	var out scheduledEventsEnvelope
	if err := c.getGuardedJSON(ctx, fullURL, &out); err != nil {
		return nil, crerr.Wrapf(err, "fetch scheduled events date=%s", day.UTC().Format(time.DateOnly))
	}

	ids := make([]int64, 0, len(out.Events))
	for _, event := range out.Events {
		if event.ID > 0 {
			ids = append(ids, event.ID)
		}
	}
	return ids, nil
}

// FetchEventDetails returns the core fields of one event; TV channels are resolved separately.
func (c *Client) FetchEventDetails(ctx context.Context, eventID int64) (match.SourceRecord, error) {
	fullURL := fmt.Sprintf("%s/event/%d", c.baseURL, eventID)

	var out eventEnvelope
	if err := c.getGuardedJSON(ctx, fullURL, &out); err != nil {
		return match.SourceRecord{}, crerr.Wrapf(err, "fetch event details event_id=%d", eventID)
	}
	return out.Event.toSourceRecord(eventID)
}

// FetchCountryChannels returns channel ids per country code.
func (c *Client) FetchCountryChannels(ctx context.Context, eventID int64) (map[string][]int64, error) {
	fullURL := fmt.Sprintf("%s/tv/event/%d/country-channels", c.baseURL, eventID)

	var out countryChannelsEnvelope
	if err := c.getGuardedJSON(ctx, fullURL, &out); err != nil {
		return nil, crerr.Wrapf(err, "fetch country channels event_id=%d", eventID)
	}
	if out.CountryChannels == nil {
		return map[string][]int64{}, nil
	}
	return out.CountryChannels, nil
}

// FetchChannelName resolves a channel id to its display name.
func (c *Client) FetchChannelName(ctx context.Context, channelID int64) (string, error) {
	fullURL := fmt.Sprintf("%s/tv/channel/%d/schedule", c.baseURL, channelID)

	var out channelScheduleEnvelope
	if err := c.getGuardedJSON(ctx, fullURL, &out); err != nil {
		return "", crerr.Wrapf(err, "fetch channel channel_id=%d", channelID)
	}
	name := strings.TrimSpace(out.Channel.Name)
	if name == "" {
		return "", crerr.Newf("channel %d has no name", channelID)
	}
	return name, nil
}

// BreakerState reports the schedule breaker state; "disabled" when no breaker is configured.
func (c *Client) BreakerState() string {
	if c.breaker == nil {
		return "disabled"
	}
	return string(c.breaker.State())
}

func (c *Client) getGuardedJSON(ctx context.Context, fullURL string, target any) error {
	var raw []byte
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		var reqErr error
		raw, reqErr = c.get(ctx, fullURL)
		return reqErr
	}, isTransientFailure)
	if crerr.Is(err, resilience.ErrCircuitOpen) {
		c.logger.WarnContext(ctx, "sofascore circuit breaker rejected request", "url", fullURL, "state", c.BreakerState())
		return fmt.Errorf("%w: schedule circuit is open", usecase.ErrProviderUnavailable)
	}
	if err != nil {
		return err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return crerr.Wrap(err, "decode provider payload")
	}
	return nil
}

func (c *Client) get(ctx context.Context, fullURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")
	req.Header.Set(fasthttp.HeaderAcceptEncoding, "gzip, br")
	if c.userAgent != "" {
		req.Header.SetUserAgent(c.userAgent)
	}

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	if err := c.httpClient.DoDeadline(req, resp, deadline); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, crerr.Wrapf(errProviderTransient, "send request url=%s: %v", fullURL, err)
	}

	status := resp.StatusCode()
	if status != fasthttp.StatusOK {
		body, _ := resp.BodyUncompressed()
		if isRetryableStatus(status) {
			return nil, crerr.Wrapf(errProviderTransient, "provider status=%d body=%s", status, abbreviateBody(body))
		}
		return nil, crerr.Wrapf(ErrUnexpectedStatus, "provider status=%d body=%s", status, abbreviateBody(body))
	}

	body, err := resp.BodyUncompressed()
	if err != nil {
		return nil, crerr.Wrapf(errProviderTransient, "decode response body url=%s: %v", fullURL, err)
	}
	// resp is released on return; keep our own copy.
	return append([]byte(nil), body...), nil
}

func isTransientFailure(err error) bool {
	return crerr.Is(err, errProviderTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func trimBaseURL(raw, fallback string) string {
	value := strings.TrimRight(strings.TrimSpace(raw), "/")
	if value == "" {
		return fallback
	}
	return value
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
