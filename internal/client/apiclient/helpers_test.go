package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu       sync.Mutex
	pair     TokenPair
	loadErr  error
	saveErr  error
	clearErr error
	saves    int
	clears   int
}

func (s *memStore) Load(context.Context) (TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pair, s.loadErr
}

func (s *memStore) Save(_ context.Context, p TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.pair = p
	return nil
}

func (s *memStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clears++
	if s.clearErr != nil {
		return s.clearErr
	}
	s.pair = TokenPair{}
	return nil
}

func (s *memStore) get() TokenPair {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pair
}

func newBackend(t *testing.T, routes func(r chi.Router)) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	routes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, baseURL string, store *memStore) *Client {
	t.Helper()
	if store == nil {
		store = &memStore{}
	}
	c, err := New(context.Background(), Options{BaseURL: baseURL, Store: store})
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func bearer(r *http.Request) string {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) < len(prefix) || h[:len(prefix)] != prefix {
		return ""
	}
	return h[len(prefix):]
}

// refreshRoute installs a refresh endpoint that accepts only "valid" and
// answers with the given pair.
func refreshRoute(r chi.Router, calls *countingHandler, valid string, resp refreshResponse) {
	r.Post(RefreshPath, calls.wrap(func(w http.ResponseWriter, req *http.Request) {
		var in refreshRequest
		if err := json.NewDecoder(req.Body).Decode(&in); err != nil || in.Refresh != valid {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token is invalid or expired"})
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}))
}

type countingHandler struct {
	mu    sync.Mutex
	count int
}

func (c *countingHandler) wrap(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		c.count++
		c.mu.Unlock()
		h(w, r)
	}
}

func (c *countingHandler) n() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}
