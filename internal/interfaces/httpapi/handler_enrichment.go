package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/matchday-feed/internal/domain/enrichment"
	"github.com/riskibarqy/matchday-feed/internal/usecase"
)

type enrichmentRequest struct {
	Kind    string `validate:"required,oneof=h2h lineups statistics odds form incidents"`
	Date    string `validate:"required,max=10"`
	MatchID int64  `validate:"required,gt=0"`
}

type enrichmentKey struct {
	Kind    enrichment.Kind
	Bucket  enrichment.DateBucket
	MatchID int64
}

func (h *Handler) decodeEnrichmentKey(r *http.Request) (enrichmentKey, error) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.decodeEnrichmentKey")
	defer span.End()

	rawID := strings.TrimSpace(r.PathValue("matchID"))
	matchID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return enrichmentKey{}, fmt.Errorf("%w: match id %q must be an integer", usecase.ErrInvalidInput, rawID)
	}

	req := enrichmentRequest{
		Kind:    strings.ToLower(strings.TrimSpace(r.PathValue("kind"))),
		Date:    strings.TrimSpace(r.PathValue("date")),
		MatchID: matchID,
	}
	if err := h.validateRequest(ctx, req); err != nil {
		return enrichmentKey{}, err
	}

	kind, err := enrichment.ParseKind(req.Kind)
	if err != nil {
		return enrichmentKey{}, err
	}
	bucket, err := enrichment.ParseDateBucket(req.Date)
	if err != nil {
		return enrichmentKey{}, err
	}
	return enrichmentKey{Kind: kind, Bucket: bucket, MatchID: req.MatchID}, nil
}

func (h *Handler) GetEnrichment(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetEnrichment")
	defer span.End()

	key, err := h.decodeEnrichmentKey(r.WithContext(ctx))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	payload, ok, err := h.listingService.GetEnrichment(ctx, key.Kind, key.Bucket, key.MatchID)
	if err != nil {
		h.logger.ErrorContext(ctx, "get enrichment failed",
			"kind", key.Kind, "date_bucket", key.Bucket, "match_id", key.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: no %s for match %d on %s", usecase.ErrEnrichmentNotFound, key.Kind, key.MatchID, key.Bucket))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, enrichmentDTO{
		Kind:       string(key.Kind),
		DateBucket: string(key.Bucket),
		MatchID:    key.MatchID,
		Payload:    payload,
	})
}

// GetEnrichmentView always answers 200; a missing payload renders as the view's unavailable form.
func (h *Handler) GetEnrichmentView(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetEnrichmentView")
	defer span.End()

	key, err := h.decodeEnrichmentKey(r.WithContext(ctx))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.listingService.EnrichmentView(ctx, key.Kind, key.Bucket, key.MatchID)
	if err != nil {
		h.logger.ErrorContext(ctx, "get enrichment view failed",
			"kind", key.Kind, "date_bucket", key.Bucket, "match_id", key.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, enrichmentViewDTO{
		Kind:       string(key.Kind),
		DateBucket: string(key.Bucket),
		MatchID:    key.MatchID,
		View:       view,
	})
}
