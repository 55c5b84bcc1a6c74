package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/matchday-feed/internal/usecase"
)

// RunPipelineJob runs one pipeline pass. Concurrent triggers share the in-flight run.
func (h *Handler) RunPipelineJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunPipelineJob")
	defer span.End()

	if h.pipelineService == nil {
		writeError(ctx, w, fmt.Errorf("%w: pipeline is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	report, err, shared := h.pipelineFlight.Do(pipelineFlightKey, func() (usecase.PipelineReport, error) {
		return h.pipelineService.Run(ctx)
	})
	if err != nil {
		h.logger.WarnContext(ctx, "run pipeline job failed", "shared", shared, "error", err)
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err))
		return
	}
	h.listingService.Invalidate()

	h.logger.InfoContext(ctx, "run pipeline job completed",
		"shared", shared,
		"matches", report.Matches,
		"days", report.Days,
		"channels", report.Channels,
	)
	writeSuccess(ctx, w, http.StatusOK, report)
}
