package handler

import (
	"fmt"
	"io"
	"net"
	"net/http"
)

// RequestIdHeader carries the request id assigned by the local server's
// middleware.
const RequestIdHeader = "X-Request-Id"

// MaxBodySize limits the request body accepted by ServeHTTP. API Gateway
// enforces its own limit in production.
const MaxBodySize = 1 << 16

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, err := newHttpApiRequest(w, r)
	result := internalError()

	if err == nil {
		result, err = h.api.handleApiRequest(r.Context(), req)
	}

	w.Header().Set("Content-Type", "application/json")
	if result.StatusCode == http.StatusMethodNotAllowed {
		w.Header().Set("Allow", http.MethodPost)
	}
	w.WriteHeader(result.StatusCode)
	_, _ = io.WriteString(w, resultBody(result))
	logApiResponse(h.api.log, req, result.StatusCode, err)
}

func newHttpApiRequest(
	w http.ResponseWriter, r *http.Request,
) (*apiRequest, error) {
	sourceIp, _, splitErr := net.SplitHostPort(r.RemoteAddr)
	if splitErr != nil {
		sourceIp = r.RemoteAddr
	}

	req := &apiRequest{
		Id:          r.Header.Get(RequestIdHeader),
		SourceIp:    sourceIp,
		Method:      r.Method,
		Path:        r.URL.Path,
		Protocol:    r.Proto,
		ContentType: r.Header.Get("Content-Type"),
	}

	if r.Body == nil {
		return req, nil
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodySize))
	if err != nil {
		return req, fmt.Errorf("failed to read body: %w", err)
	}
	req.Body = string(body)
	return req, nil
}
