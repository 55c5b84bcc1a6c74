package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/matchday-feed/internal/usecase"
)

type listMatchesRequest struct {
	LeagueID int64 `validate:"omitempty,gt=0"`
}

type dayRequest struct {
	Date string `validate:"required,max=10"`
}

type channelRequest struct {
	Channel string `validate:"required,max=200"`
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	var req listMatchesRequest
	if raw := strings.TrimSpace(r.URL.Query().Get("league_id")); raw != "" {
		leagueID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: league_id must be an integer", usecase.ErrInvalidInput))
			return
		}
		req.LeagueID = leagueID
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	matches, err := h.listingService.Matches(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(matches))
	for _, m := range matches {
		if req.LeagueID > 0 && m.LeagueID != req.LeagueID {
			continue
		}
		items = append(items, matchToDTO(m))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListDays(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListDays")
	defer span.End()

	days, err := h.listingService.Days(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list days failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]dayDTO, 0, len(days))
	for _, day := range days {
		items = append(items, dayToDTO(day))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDay")
	defer span.End()

	req := dayRequest{Date: strings.TrimSpace(r.PathValue("date"))}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	day, err := h.listingService.Day(ctx, req.Date)
	if err != nil {
		h.logger.WarnContext(ctx, "get day failed", "date", req.Date, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, dayToDTO(day))
}

func (h *Handler) ListChannels(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListChannels")
	defer span.End()

	channels, err := h.listingService.Channels(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list channels failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]channelSummaryDTO, 0, len(channels))
	for _, channel := range channels {
		items = append(items, channelSummaryDTO{
			Name:       channel.Name,
			Slug:       channel.Slug,
			MatchCount: len(channel.Entries),
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetChannel(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetChannel")
	defer span.End()

	req := channelRequest{Channel: strings.TrimSpace(r.PathValue("channel"))}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	channel, err := h.listingService.Channel(ctx, req.Channel)
	if err != nil {
		h.logger.WarnContext(ctx, "get channel failed", "channel", req.Channel, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, channelToDTO(channel))
}
