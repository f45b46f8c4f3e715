package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrSessionExists   = errors.New("session already exists")
	ErrSessionNotFound = errors.New("session not found")
)

// SessionUser is the user blob cached with a session, stored as JSON.
type SessionUser struct {
	ID                 int      `json:"id"`
	Username           string   `json:"username"`
	Email              string   `json:"email"`
	FirstName          string   `json:"first_name"`
	LastName           string   `json:"last_name"`
	City               string   `json:"city"`
	Phone              string   `json:"phone"`
	Bio                string   `json:"bio,omitempty"`
	Interests          []string `json:"interests"`
	Favorites          []int    `json:"favorites"`
	EventRegistrations []int    `json:"event_registrations"`
	SavedMaterials     []int    `json:"saved_materials"`
	IsStaff            bool     `json:"is_staff"`
	IsSuperuser        bool     `json:"is_superuser"`
}

type Session struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	AccessToken  string `gorm:"not null"`
	RefreshToken string

	UserID int         `gorm:"index;not null"`
	User   SessionUser `gorm:"type:jsonb;serializer:json;not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
}

type SessionDAO struct {
	db *gorm.DB
}

func NewSessionDAO(db *gorm.DB) *SessionDAO {
	return &SessionDAO{
		db: db,
	}
}

func (d *SessionDAO) Insert(ctx context.Context, s Session) (Session, error) {
	result := d.db.WithContext(ctx).Create(&s)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) && err.Code == pgerrcode.UniqueViolation {
			return Session{}, ErrSessionExists
		}

		return Session{}, result.Error
	}

	return s, nil
}

func (d *SessionDAO) FindByID(ctx context.Context, id uuid.UUID) (Session, error) {
	var s Session

	result := d.db.WithContext(ctx).First(&s, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Session{}, ErrSessionNotFound
		}

		return Session{}, result.Error
	}

	return s, nil
}

// Update overwrites the tokens, the user blob and the expiry of an existing
// session.
func (d *SessionDAO) Update(ctx context.Context, s Session) (Session, error) {
	result := d.db.WithContext(ctx).Model(&Session{ID: s.ID}).Select(
		"AccessToken", "RefreshToken", "UserID", "User", "ExpiresAt", "UpdatedAt",
	).Updates(&s)
	if result.Error != nil {
		return Session{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Session{}, ErrSessionNotFound
	}

	return d.FindByID(ctx, s.ID)
}

func (d *SessionDAO) Delete(ctx context.Context, id uuid.UUID) error {
	result := d.db.WithContext(ctx).Delete(&Session{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}

	return nil
}

func (d *SessionDAO) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := d.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&Session{})

	return result.RowsAffected, result.Error
}
