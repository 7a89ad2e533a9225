package httpapi

import (
	"context"
	"encoding/json"
	"math/rand"
	"net"
	"net/http"
	"strconv"

	"github.com/nullhorizon/recon-dns/internal/dns/domain"
)

// writeJSON marshals v and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// handleResolve implements GET /resolve?domain=<fqdn>&type=<rrtype>[&host=<ip>[:port]].
// Validation failures return HTTP 400 with a JSON {"error": "..."} body. A
// domain/type pair resolves through the full iterative engine; supplying
// host bypasses the engine and queries that one server directly, per
// spec.md §6's "host" parameter.
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	v, err := newValidator()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "validator unavailable")
		return
	}

	q := r.URL.Query()
	params, err := parseParams(v, q.Get("domain"), q.Get("type"), q.Get("host"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	question, err := domain.NewQuestion(params.Domain, domain.RRTypeFromString(params.Type), domain.RRClassIN)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	request := domain.NewQueryMessage(randomMessageID(), question)

	if params.Host != "" {
		s.handleDirect(w, r.Context(), request, params.Host)
		return
	}

	resp := s.resolver.Resolve(r.Context(), request)
	writeJSON(w, http.StatusOK, toJSON(resp))
}

func (s *Server) handleDirect(w http.ResponseWriter, ctx context.Context, request domain.Message, hostPort string) {
	host, portStr, err := net.SplitHostPort(hostPort)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid host")
		return
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid port")
		return
	}

	resp, err := s.client.Query(ctx, request, host, port, directQueryTimeout)
	if err != nil {
		s.logger.Warn(map[string]any{
			"host":  host,
			"error": err.Error(),
		}, "direct upstream query failed")
		writeJSON(w, http.StatusOK, toJSON(domain.NameError(request)))
		return
	}
	writeJSON(w, http.StatusOK, toJSON(resp))
}

// randomMessageID picks a uniform random 16-bit query ID, the same idiom
// the resolution engine uses for uniform root-hint and candidate picks.
func randomMessageID() uint16 {
	return uint16(rand.Intn(1 << 16))
}
