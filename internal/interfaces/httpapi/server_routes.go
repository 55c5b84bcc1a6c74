package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerListingRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/matches", handler.ListMatches)
	mux.HandleFunc("GET /v1/days", handler.ListDays)
	mux.HandleFunc("GET /v1/days/{date}", handler.GetDay)
	mux.HandleFunc("GET /v1/channels", handler.ListChannels)
	mux.HandleFunc("GET /v1/channels/{channel}", handler.GetChannel)
}

func registerEnrichmentRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/enrichment/{kind}/{date}/{matchID}", handler.GetEnrichment)
	mux.HandleFunc("GET /v1/enrichment/{kind}/{date}/{matchID}/view", handler.GetEnrichmentView)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/run", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunPipelineJob)))
}
