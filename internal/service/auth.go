package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/G1ebS/rosatom-nko-sub000/internal/config"
	"github.com/G1ebS/rosatom-nko-sub000/internal/domain"
	"github.com/G1ebS/rosatom-nko-sub000/internal/pkg/jwthelper"
	"github.com/G1ebS/rosatom-nko-sub000/internal/portalapi"
	"github.com/G1ebS/rosatom-nko-sub000/internal/repository"
)

var (
	ErrWrongCredentials = errors.New("wrong username or password")
	ErrSessionNotFound  = repository.ErrSessionNotFound
	ErrSessionExpired   = errors.New("session expired")
	ErrUnauthenticated  = errors.New("authentication required")
)

type SessionRepository interface {
	Create(ctx context.Context, s domain.Session) (domain.Session, error)
	FindByID(ctx context.Context, id uuid.UUID) (domain.Session, error)
	Save(ctx context.Context, s domain.Session) (domain.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Login is a freshly opened or refreshed session together with the gateway
// token that names it.
type Login struct {
	Token   string         `json:"token"`
	Session domain.Session `json:"session"`
}

type AuthService struct {
	conf     *config.APIConfig
	client   *portalapi.Client
	repo     SessionRepository
	toasts   ToastPublisher
	onLogout []func(sessionID string)
	now      func() time.Time
}

func NewAuthService(conf *config.APIConfig, client *portalapi.Client, repo SessionRepository, toasts ToastPublisher) *AuthService {
	return &AuthService{
		conf:   conf,
		client: client,
		repo:   repo,
		toasts: toasts,
		now:    time.Now,
	}
}

// OnLogout registers a callback run after a session is closed, used to drop
// per-session state held outside the store.
func (s *AuthService) OnLogout(fn func(sessionID string)) {
	s.onLogout = append(s.onLogout, fn)
}

func (s *AuthService) Register(ctx context.Context, r domain.Registration, userAgent string) (Login, error) {
	pair, err := s.client.Auth().Register(ctx, r)
	if err != nil {
		return Login{}, fmt.Errorf("s.client.Auth().Register -> %w", err)
	}

	if pair.Access == "" {
		username := r.Username
		if username == "" {
			username = r.Email
		}

		return s.Login(ctx, username, r.Password, userAgent)
	}

	return s.open(ctx, pair, userAgent)
}

func (s *AuthService) Login(ctx context.Context, username, password, userAgent string) (Login, error) {
	pair, err := s.client.Auth().Login(ctx, username, password)
	if err != nil {
		switch portalapi.StatusOf(err) {
		case http.StatusUnauthorized, http.StatusBadRequest:
			return Login{}, ErrWrongCredentials
		}

		return Login{}, fmt.Errorf("s.client.Auth().Login -> %w", err)
	}

	return s.open(ctx, pair, userAgent)
}

func (s *AuthService) open(ctx context.Context, pair domain.TokenPair, userAgent string) (Login, error) {
	user, err := s.client.WithToken(pair.Access).Auth().Me(ctx)
	if err != nil {
		return Login{}, fmt.Errorf("s.client.Auth().Me -> %w", err)
	}

	session, err := s.repo.Create(ctx, domain.Session{
		AccessToken:  pair.Access,
		RefreshToken: pair.Refresh,
		User:         user,
		ExpiresAt:    s.now().Add(s.conf.SessionTTL),
	})
	if err != nil {
		return Login{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return s.issue(session, userAgent)
}

func (s *AuthService) issue(session domain.Session, userAgent string) (Login, error) {
	token, err := jwthelper.GenerateToken([]byte(s.conf.JWTSigningKey), session.ID.String(), userAgent, s.conf.SessionTTL)
	if err != nil {
		return Login{}, fmt.Errorf("jwthelper.GenerateToken -> %w", err)
	}

	return Login{Token: token, Session: session}, nil
}

// Authenticate resolves a gateway token to the session it names.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.Principal, error) {
	claims, err := jwthelper.ParseToken([]byte(s.conf.JWTSigningKey), token)
	if err != nil {
		return domain.Anonymous(), ErrUnauthenticated
	}

	id, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return domain.Anonymous(), ErrUnauthenticated
	}

	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return domain.Anonymous(), ErrSessionNotFound
		}

		return domain.Anonymous(), fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if session.Expired(s.now()) {
		return domain.Anonymous(), ErrSessionExpired
	}

	return domain.Authenticated(session), nil
}

// Refresh trades the stored refresh token for a new access token and extends
// the session.
func (s *AuthService) Refresh(ctx context.Context, p domain.Principal, userAgent string) (Login, error) {
	session, ok := p.Session()
	if !ok {
		return Login{}, ErrUnauthenticated
	}
	if session.RefreshToken == "" {
		return Login{}, ErrSessionExpired
	}

	pair, err := s.client.Auth().Refresh(ctx, session.RefreshToken)
	if err != nil {
		if portalapi.IsUnauthorized(err) {
			return Login{}, ErrSessionExpired
		}

		return Login{}, reportFailure(s.toasts, p, fmt.Errorf("s.client.Auth().Refresh -> %w", err))
	}

	session.AccessToken = pair.Access
	session.RefreshToken = pair.Refresh
	session.ExpiresAt = s.now().Add(s.conf.SessionTTL)

	saved, err := s.repo.Save(ctx, session)
	if err != nil {
		return Login{}, fmt.Errorf("s.repo.Save -> %w", err)
	}

	return s.issue(saved, userAgent)
}

// Me returns the cached user, re-reading it from upstream first when sync is
// set.
func (s *AuthService) Me(ctx context.Context, p domain.Principal, sync bool) (domain.User, error) {
	session, ok := p.Session()
	if !ok {
		return domain.User{}, ErrUnauthenticated
	}
	if !sync {
		return session.User, nil
	}

	user, err := s.client.WithToken(session.AccessToken).Auth().Me(ctx)
	if err != nil {
		return domain.User{}, reportFailure(s.toasts, p, fmt.Errorf("s.client.Auth().Me -> %w", err))
	}

	return s.storeUser(ctx, session, user)
}

func (s *AuthService) UpdateMe(ctx context.Context, p domain.Principal, u domain.ProfileUpdate) (domain.User, error) {
	session, ok := p.Session()
	if !ok {
		return domain.User{}, ErrUnauthenticated
	}

	user, err := s.client.WithToken(session.AccessToken).Auth().UpdateMe(ctx, u)
	if err != nil {
		return domain.User{}, reportFailure(s.toasts, p, fmt.Errorf("s.client.Auth().UpdateMe -> %w", err))
	}

	return s.storeUser(ctx, session, user)
}

func (s *AuthService) storeUser(ctx context.Context, session domain.Session, user domain.User) (domain.User, error) {
	session.User = user

	saved, err := s.repo.Save(ctx, session)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Save -> %w", err)
	}

	return saved.User, nil
}

func (s *AuthService) Logout(ctx context.Context, p domain.Principal) error {
	session, ok := p.Session()
	if !ok {
		return ErrUnauthenticated
	}

	if err := s.repo.Delete(ctx, session.ID); err != nil && !errors.Is(err, repository.ErrSessionNotFound) {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	for _, fn := range s.onLogout {
		fn(session.ID.String())
	}

	zap.L().Debug("session closed", zap.String("session_id", session.ID.String()), zap.Int("user_id", session.User.ID))

	return nil
}
