package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/G1ebS/rosatom-nko-sub000/internal/domain"
	"github.com/G1ebS/rosatom-nko-sub000/internal/portalapi"
)

type mockSessionRepo struct {
	mock.Mock
}

func (m *mockSessionRepo) Create(ctx context.Context, s domain.Session) (domain.Session, error) {
	args := m.Called(ctx, s)
	if fn, ok := args.Get(0).(func(domain.Session) domain.Session); ok {
		return fn(s), args.Error(1)
	}
	return args.Get(0).(domain.Session), args.Error(1)
}

func (m *mockSessionRepo) FindByID(ctx context.Context, id uuid.UUID) (domain.Session, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Session), args.Error(1)
}

func (m *mockSessionRepo) Save(ctx context.Context, s domain.Session) (domain.Session, error) {
	args := m.Called(ctx, s)
	if fn, ok := args.Get(0).(func(domain.Session) domain.Session); ok {
		return fn(s), args.Error(1)
	}
	return args.Get(0).(domain.Session), args.Error(1)
}

func (m *mockSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type recordedToasts struct {
	mu       sync.Mutex
	sessions []string
	toasts   []domain.Toast
}

func (r *recordedToasts) Publish(sessionID string, t domain.Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions = append(r.sessions, sessionID)
	r.toasts = append(r.toasts, t)
}

func newUpstream(t *testing.T, routes map[string]http.HandlerFunc) *portalapi.Client {
	t.Helper()

	mux := http.NewServeMux()
	for pattern, h := range routes {
		mux.HandleFunc(pattern, h)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return portalapi.New(srv.URL)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func signedIn(user domain.User) domain.Principal {
	return domain.Authenticated(domain.Session{
		ID:           uuid.New(),
		AccessToken:  "acc",
		RefreshToken: "ref",
		User:         user,
	})
}

func decodeBody(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
