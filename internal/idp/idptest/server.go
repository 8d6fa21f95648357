// Package idptest provides a fake Keycloak for tests.
//
// It serves the three endpoints ast-keyaudit uses, under the same paths as
// the real identity provider, and records what it received.
package idptest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Route names used by Calls.
const (
	RouteToken    = "token"
	RouteClients  = "clients"
	RouteSessions = "sessions"
)

// Response is a canned reply. Body is JSON-encoded unless it is a string,
// which is written verbatim.
type Response struct {
	Status int
	Body   any
}

// Server is a fake identity provider for one tenant realm.
type Server struct {
	*httptest.Server

	tenant string

	mu       sync.Mutex
	token    Response
	clients  Response
	sessions Response
	calls    map[string]int
	forms    []url.Values
	auth     []string
	clientID []string
}

// New starts a fake identity provider for tenant with a working default setup:
// token "tok1" valid for 600s, one ast-app client "c1", no sessions.
func New(tenant string) *Server {
	s := &Server{
		tenant:   tenant,
		token:    Response{Status: http.StatusOK, Body: map[string]any{"access_token": "tok1", "expires_in": 600}},
		clients:  Response{Status: http.StatusOK, Body: []map[string]any{{"id": "c1", "clientId": "ast-app"}}},
		sessions: Response{Status: http.StatusOK, Body: []map[string]any{}},
		calls:    make(map[string]int),
	}

	r := chi.NewRouter()
	r.Post("/auth/realms/{tenant}/protocol/openid-connect/token", s.handleToken)
	r.Get("/auth/admin/realms/{tenant}/clients", s.handleClients)
	r.Get("/auth/admin/realms/{tenant}/clients/{id}/offline-sessions", s.handleSessions)

	s.Server = httptest.NewServer(r)
	return s
}

// SetToken replaces the token endpoint reply.
func (s *Server) SetToken(resp Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = resp
}

// SetClients replaces the clients endpoint reply.
func (s *Server) SetClients(resp Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients = resp
}

// SetSessions replaces the offline-sessions endpoint reply.
func (s *Server) SetSessions(resp Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = resp
}

// Calls returns how often route was hit.
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// TokenForms returns the form bodies posted to the token endpoint.
func (s *Server) TokenForms() []url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]url.Values(nil), s.forms...)
}

// AuthHeaders returns the Authorization headers seen by the admin endpoints.
func (s *Server) AuthHeaders() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.auth...)
}

// SessionClientIDs returns the client ids the offline-sessions endpoint was asked for.
func (s *Server) SessionClientIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.clientID...)
}

// Transport returns a RoundTripper that sends every request to this server,
// whatever its scheme and host. Tests use it to run real platform URLs such
// as https://iam.checkmarx.net against the fake.
func (s *Server) Transport() http.RoundTripper {
	target, _ := url.Parse(s.URL)
	return roundTripFunc(func(req *http.Request) (*http.Response, error) {
		req = req.Clone(req.Context())
		req.URL.Scheme = target.Scheme
		req.URL.Host = target.Host
		req.Host = target.Host
		return http.DefaultTransport.RoundTrip(req)
	})
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if !s.checkTenant(w, r) {
		return
	}
	_ = r.ParseForm()

	s.mu.Lock()
	s.calls[RouteToken]++
	s.forms = append(s.forms, r.PostForm)
	resp := s.token
	s.mu.Unlock()

	writeResponse(w, resp)
}

func (s *Server) handleClients(w http.ResponseWriter, r *http.Request) {
	if !s.checkTenant(w, r) {
		return
	}

	s.mu.Lock()
	s.calls[RouteClients]++
	s.auth = append(s.auth, r.Header.Get("Authorization"))
	resp := s.clients
	s.mu.Unlock()

	if r.URL.Query().Get("clientId") != "ast-app" {
		writeResponse(w, Response{Status: http.StatusOK, Body: []any{}})
		return
	}
	writeResponse(w, resp)
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	if !s.checkTenant(w, r) {
		return
	}

	s.mu.Lock()
	s.calls[RouteSessions]++
	s.auth = append(s.auth, r.Header.Get("Authorization"))
	s.clientID = append(s.clientID, chi.URLParam(r, "id"))
	resp := s.sessions
	s.mu.Unlock()

	writeResponse(w, resp)
}

func (s *Server) checkTenant(w http.ResponseWriter, r *http.Request) bool {
	if chi.URLParam(r, "tenant") != s.tenant {
		writeResponse(w, Response{
			Status: http.StatusNotFound,
			Body:   map[string]string{"error": "Realm does not exist"},
		})
		return false
	}
	return true
}

// writeResponse always sets Content-Type: the oauth2 client parses a
// text/plain body as form values.
func writeResponse(w http.ResponseWriter, resp Response) {
	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if raw, ok := resp.Body.(string); ok {
		_, _ = w.Write([]byte(raw))
		return
	}
	if resp.Body != nil {
		_ = json.NewEncoder(w).Encode(resp.Body)
	}
}
