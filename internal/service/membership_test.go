package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/G1ebS/rosatom-nko-sub000/internal/domain"
	"github.com/G1ebS/rosatom-nko-sub000/internal/toggle"
	"github.com/G1ebS/rosatom-nko-sub000/internal/viewmodel"
)

func newMembership(t *testing.T, routes map[string]http.HandlerFunc) (*MembershipService, *mockSessionRepo, *recordedToasts) {
	repo := &mockSessionRepo{}
	toasts := &recordedToasts{}
	svc := NewMembershipService(newUpstream(t, routes), repo, toggle.NewTracker(), toasts, viewmodel.NewBuilder(nil))

	return svc, repo, toasts
}

func TestMembershipService_SetRegistration_Commits(t *testing.T) {
	ctx := context.Background()
	var method string

	svc, repo, toasts := newMembership(t, map[string]http.HandlerFunc{
		"/events/7/register/": func(w http.ResponseWriter, r *http.Request) {
			method = r.Method
			assert.Equal(t, "Bearer acc", r.Header.Get("Authorization"))
			writeJSON(w, http.StatusCreated, map[string]string{"status": "registered"})
		},
	})

	p := signedIn(domain.User{ID: 1, EventRegistrations: domain.IDSet{3, 5}})
	session, _ := p.Session()

	repo.On("FindByID", mock.Anything, session.ID).Return(session, nil).Once()
	repo.On("Save", mock.Anything, mock.MatchedBy(func(s domain.Session) bool {
		return assert.ObjectsAreEqual(domain.IDSet{3, 5, 7}, s.User.EventRegistrations)
	})).Return(func(s domain.Session) domain.Session { return s }, nil).Once()

	got, err := svc.SetRegistration(ctx, p, 7, true, nil)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, Membership{Kind: toggle.Registration, Item: 7, Active: true, Phase: "committed"}, got)
	require.Len(t, toasts.toasts, 1)
	assert.Equal(t, domain.ToastSuccess, toasts.toasts[0].Type)
	assert.Equal(t, session.ID.String(), toasts.sessions[0])
	repo.AssertExpectations(t)
}

func TestMembershipService_SetSaved_FailureKeepsState(t *testing.T) {
	ctx := context.Background()

	svc, repo, toasts := newMembership(t, map[string]http.HandlerFunc{
		"/library/": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"material": []string{"Материал уже сохранён"}})
		},
	})

	p := signedIn(domain.User{ID: 1})

	got, err := svc.SetSaved(ctx, p, 4, true)
	require.Error(t, err)

	assert.False(t, got.Active)
	assert.Equal(t, "failed", got.Phase)
	require.Len(t, toasts.toasts, 1)
	assert.Equal(t, domain.ToastError, toasts.toasts[0].Type)
	assert.Equal(t, "material: Материал уже сохранён", toasts.toasts[0].Message)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestMembershipService_SetFavorite_Idempotent(t *testing.T) {
	svc, repo, toasts := newMembership(t, map[string]http.HandlerFunc{
		"/ngos/3/favorite/": func(w http.ResponseWriter, r *http.Request) {
			t.Errorf("unexpected upstream call %s", r.Method)
		},
	})

	got, err := svc.SetFavorite(context.Background(), signedIn(domain.User{ID: 1, Favorites: domain.IDSet{3}}), 3, true)
	require.NoError(t, err)

	assert.True(t, got.Active)
	assert.Empty(t, toasts.toasts)
	repo.AssertExpectations(t)
}

func TestMembershipService_SetFavorite_Remove(t *testing.T) {
	ctx := context.Background()
	var method string

	svc, repo, _ := newMembership(t, map[string]http.HandlerFunc{
		"/ngos/3/favorite/": func(w http.ResponseWriter, r *http.Request) {
			method = r.Method
			w.WriteHeader(http.StatusNoContent)
		},
	})

	p := signedIn(domain.User{ID: 1, Favorites: domain.IDSet{3, 8}})
	session, _ := p.Session()

	repo.On("FindByID", mock.Anything, session.ID).Return(session, nil).Once()
	repo.On("Save", mock.Anything, mock.MatchedBy(func(s domain.Session) bool {
		return assert.ObjectsAreEqual(domain.IDSet{8}, s.User.Favorites)
	})).Return(func(s domain.Session) domain.Session { return s }, nil).Once()

	got, err := svc.SetFavorite(ctx, p, 3, false)
	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.Equal(t, http.MethodDelete, method)
	repo.AssertExpectations(t)
}

func TestMembershipService_RequiresSession(t *testing.T) {
	svc, _, _ := newMembership(t, nil)

	_, err := svc.SetSaved(context.Background(), domain.Anonymous(), 1, true)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.Library(context.Background(), domain.Anonymous())
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestMembershipService_Library(t *testing.T) {
	svc, _, _ := newMembership(t, map[string]http.HandlerFunc{
		"/library/": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, []map[string]any{
				{"id": 1, "material": map[string]any{"id": 4, "title": "Гайд", "type": "PDF"}},
				{"id": 2, "material": map[string]any{"id": 6, "title": "Лекция", "type": "audio"}},
			})
		},
	})

	cards, err := svc.Library(context.Background(), signedIn(domain.User{ID: 1, SavedMaterials: domain.IDSet{4, 6}}))
	require.NoError(t, err)

	require.Len(t, cards, 2)
	assert.True(t, cards[0].IsSaved)
	assert.Equal(t, domain.MaterialOther, cards[1].Kind)
}
