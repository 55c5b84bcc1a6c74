package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/matchday-feed/internal/domain/enrichment"
	"github.com/riskibarqy/matchday-feed/internal/usecase"
)

func TestWriteSuccess_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteError_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	errorObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in response")
	}
	if got, _ := errorObj["status"].(string); got != "INVALID_ARGUMENT" {
		t.Fatalf("expected error status INVALID_ARGUMENT, got %v", errorObj["status"])
	}
}

func TestMapError_StatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		want       int
		wantReason string
	}{
		{name: "generic not found", err: fmt.Errorf("%w: day 2026-01-10", usecase.ErrNotFound), want: http.StatusNotFound, wantReason: "notFound"},
		{name: "day not listed", err: fmt.Errorf("%w: 2026-01-10", usecase.ErrDayNotListed), want: http.StatusNotFound, wantReason: "dayNotListed"},
		{name: "channel not indexed", err: fmt.Errorf("%w: \"tba\"", usecase.ErrChannelNotIndexed), want: http.StatusNotFound, wantReason: "channelNotIndexed"},
		{name: "enrichment not stored", err: usecase.ErrEnrichmentNotFound, want: http.StatusNotFound, wantReason: "enrichmentNotStored"},
		{name: "unauthorized", err: usecase.ErrUnauthorized, want: http.StatusUnauthorized, wantReason: "unauthorized"},
		{name: "dependency", err: fmt.Errorf("%w: collect", usecase.ErrDependencyUnavailable), want: http.StatusServiceUnavailable, wantReason: "dependencyUnavailable"},
		{name: "source", err: fmt.Errorf("%w: collect", usecase.ErrSourceUnavailable), want: http.StatusServiceUnavailable, wantReason: "matchSourceUnavailable"},
		{name: "store", err: fmt.Errorf("%w: disk full", usecase.ErrStoreUnavailable), want: http.StatusServiceUnavailable, wantReason: "enrichmentStoreUnavailable"},
		{name: "provider", err: fmt.Errorf("%w: schedule circuit is open", usecase.ErrProviderUnavailable), want: http.StatusServiceUnavailable, wantReason: "providerUnavailable"},
		{name: "unknown kind", err: fmt.Errorf("%w: \"weather\"", enrichment.ErrUnknownKind), want: http.StatusBadRequest, wantReason: "invalidEnrichmentKind"},
		{name: "bad bucket", err: enrichment.ErrInvalidDateBucket, want: http.StatusBadRequest, wantReason: "invalidDateBucket"},
		{name: "invalid input", err: fmt.Errorf("%w: league_id", usecase.ErrInvalidInput), want: http.StatusBadRequest, wantReason: "invalidInput"},
		{name: "other", err: fmt.Errorf("boom"), want: http.StatusInternalServerError, wantReason: "internalError"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(context.Background(), tt.err)
			if got.HTTPStatus != tt.want || got.Reason != tt.wantReason {
				t.Fatalf("mapError(%v) = %d/%s, want %d/%s", tt.err, got.HTTPStatus, got.Reason, tt.want, tt.wantReason)
			}
		})
	}
}
