package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/users/{nickname}/matches", handler.ListMatches)
	mux.HandleFunc("POST /v1/users/{nickname}/matches/refresh", handler.RefreshMatches)
	mux.HandleFunc("GET /v1/users/{nickname}/aggregates/{kind}", handler.GetAggregate)
	mux.HandleFunc("GET /v1/matches/{matchRecordID}/shots", handler.ListShots)
	mux.HandleFunc("GET /v1/matches/{matchRecordID}/performances", handler.ListPerformances)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/extract", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunExtractJob)))
}
