package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/matchday-feed/internal/platform/logging"
	"github.com/riskibarqy/matchday-feed/internal/platform/resilience"
	"github.com/riskibarqy/matchday-feed/internal/usecase"
)

const pipelineFlightKey = "pipeline:run"

type Handler struct {
	listingService  *usecase.ListingService
	pipelineService *usecase.PipelineService
	pipelineFlight  resilience.Group[usecase.PipelineReport]
	logger          *logging.Logger
	validator       *validator.Validate
}

func NewHandler(
	listingService *usecase.ListingService,
	pipelineService *usecase.PipelineService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		listingService:  listingService,
		pipelineService: pipelineService,
		logger:          logger,
		validator:       validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
