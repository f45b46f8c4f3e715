package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/G1ebS/rosatom-nko-sub000/internal/domain"
	"github.com/G1ebS/rosatom-nko-sub000/internal/repository/dao"
)

var (
	ErrSessionExists   = dao.ErrSessionExists
	ErrSessionNotFound = dao.ErrSessionNotFound
)

type SessionDAO interface {
	Insert(ctx context.Context, s dao.Session) (dao.Session, error)
	FindByID(ctx context.Context, id uuid.UUID) (dao.Session, error)
	Update(ctx context.Context, s dao.Session) (dao.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type SessionRepository struct {
	dao SessionDAO
}

func NewSessionRepository(dao SessionDAO) *SessionRepository {
	return &SessionRepository{
		dao: dao,
	}
}

func (r *SessionRepository) Create(ctx context.Context, s domain.Session) (domain.Session, error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}

	created, err := r.dao.Insert(ctx, r.domainToDAO(s))
	if err != nil {
		return domain.Session{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *SessionRepository) FindByID(ctx context.Context, id uuid.UUID) (domain.Session, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Session{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *SessionRepository) Save(ctx context.Context, s domain.Session) (domain.Session, error) {
	updated, err := r.dao.Update(ctx, r.domainToDAO(s))
	if err != nil {
		return domain.Session{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *SessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *SessionRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	n, err := r.dao.DeleteExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("r.dao.DeleteExpired -> %w", err)
	}

	return n, nil
}

func (r *SessionRepository) daoToDomain(s dao.Session) domain.Session {
	u := s.User

	return domain.Session{
		ID:           s.ID,
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		User: domain.User{
			ID:                 u.ID,
			Username:           u.Username,
			Email:              u.Email,
			FirstName:          u.FirstName,
			LastName:           u.LastName,
			City:               u.City,
			Phone:              u.Phone,
			Bio:                u.Bio,
			Interests:          u.Interests,
			Favorites:          domain.IDSet(u.Favorites),
			EventRegistrations: domain.IDSet(u.EventRegistrations),
			SavedMaterials:     domain.IDSet(u.SavedMaterials),
			IsStaff:            u.IsStaff,
			IsSuperuser:        u.IsSuperuser,
		},
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		ExpiresAt: s.ExpiresAt,
	}
}

func (r *SessionRepository) domainToDAO(s domain.Session) dao.Session {
	u := s.User

	return dao.Session{
		ID:           s.ID,
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		UserID:       u.ID,
		User: dao.SessionUser{
			ID:                 u.ID,
			Username:           u.Username,
			Email:              u.Email,
			FirstName:          u.FirstName,
			LastName:           u.LastName,
			City:               u.City,
			Phone:              u.Phone,
			Bio:                u.Bio,
			Interests:          u.Interests,
			Favorites:          []int(u.Favorites),
			EventRegistrations: []int(u.EventRegistrations),
			SavedMaterials:     []int(u.SavedMaterials),
			IsStaff:            u.IsStaff,
			IsSuperuser:        u.IsSuperuser,
		},
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		ExpiresAt: s.ExpiresAt,
	}
}
