package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/G1ebS/rosatom-nko-sub000/internal/domain"
	"github.com/G1ebS/rosatom-nko-sub000/internal/repository/dao"
)

type mockSessionDAO struct {
	mock.Mock
}

func (m *mockSessionDAO) Insert(ctx context.Context, s dao.Session) (dao.Session, error) {
	args := m.Called(ctx, s)
	if fn, ok := args.Get(0).(func(dao.Session) dao.Session); ok {
		return fn(s), args.Error(1)
	}
	return args.Get(0).(dao.Session), args.Error(1)
}

func (m *mockSessionDAO) FindByID(ctx context.Context, id uuid.UUID) (dao.Session, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(dao.Session), args.Error(1)
}

func (m *mockSessionDAO) Update(ctx context.Context, s dao.Session) (dao.Session, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(dao.Session), args.Error(1)
}

func (m *mockSessionDAO) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockSessionDAO) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func TestSessionRepository_Create(t *testing.T) {
	ctx := context.Background()
	m := &mockSessionDAO{}
	repo := NewSessionRepository(m)

	user := domain.User{ID: 9, Email: "anna@example.com", Favorites: domain.IDSet{3, 5}, Interests: []string{"Экология"}}

	m.On("Insert", ctx, mock.MatchedBy(func(s dao.Session) bool {
		return s.ID != uuid.Nil && s.UserID == 9 && s.AccessToken == "a" &&
			assert.ObjectsAreEqual([]int{3, 5}, s.User.Favorites)
	})).Return(func(s dao.Session) dao.Session { return s }, nil).Once()

	got, err := repo.Create(ctx, domain.Session{AccessToken: "a", RefreshToken: "r", User: user})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, user, got.User)
	assert.Equal(t, "r", got.RefreshToken)
	m.AssertExpectations(t)
}

func TestSessionRepository_FindByID_NotFound(t *testing.T) {
	ctx := context.Background()
	m := &mockSessionDAO{}
	repo := NewSessionRepository(m)
	id := uuid.New()

	m.On("FindByID", ctx, id).Return(dao.Session{}, dao.ErrSessionNotFound).Once()

	_, err := repo.FindByID(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionRepository_PurgeExpired(t *testing.T) {
	ctx := context.Background()
	m := &mockSessionDAO{}
	repo := NewSessionRepository(m)
	now := time.Now()

	m.On("DeleteExpired", ctx, now).Return(int64(0), errors.New("conn reset")).Once()

	_, err := repo.PurgeExpired(ctx, now)
	assert.EqualError(t, err, "r.dao.DeleteExpired -> conn reset")
}
