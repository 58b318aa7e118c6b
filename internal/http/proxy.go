package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httputil"

	applog "spesechart/internal/log"
	"spesechart/internal/middleware/trace"
)

// UpstreamErrorMessage is sent in the store envelope when the upstream
// cannot be reached, so the page shows it like any store refusal.
const UpstreamErrorMessage = "store unavailable"

type errorEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (s *Server) newStoreProxy() *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(s.upstream)
			pr.SetXForwarded()
			if id := trace.GetRequestID(pr.In.Context()); id != "" {
				pr.Out.Header.Set(trace.RequestIDHeader, id)
			}
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			if errors.Is(err, context.Canceled) {
				return
			}
			applog.FromContext(r.Context()).ErrorContext(r.Context(), "Store proxy failed",
				applog.NewFields().
					WithHTTPRequest(r.Method, r.URL.Path, "", "").
					WithError(err).
					WithErrorType(applog.ErrorTypeNetwork).
					ToSlice()...)

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			_ = json.NewEncoder(w).Encode(errorEnvelope{Status: "error", Message: UpstreamErrorMessage})
		},
	}
}
