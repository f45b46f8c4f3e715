package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/G1ebS/rosatom-nko-sub000/internal/domain"
	"github.com/G1ebS/rosatom-nko-sub000/internal/portalapi"
	"github.com/G1ebS/rosatom-nko-sub000/internal/toggle"
	"github.com/G1ebS/rosatom-nko-sub000/internal/viewmodel"
)

var ErrSubmitting = toggle.ErrSubmitting

// Membership is the state of one user-owned relation after a change.
type Membership struct {
	Kind   toggle.Kind `json:"kind"`
	Item   int         `json:"item"`
	Active bool        `json:"active"`
	Phase  string      `json:"phase"`
}

// relation describes one kind of membership: which id-set of the user holds
// it and which upstream calls change it.
type relation struct {
	kind      toggle.Kind
	get       func(u domain.User) domain.IDSet
	put       func(u *domain.User, ids domain.IDSet)
	activated string
	cleared   string
	roundTrip func(c *portalapi.Client, item int) toggle.RoundTrip
}

var favorites = relation{
	kind: toggle.Favorite,
	get:  func(u domain.User) domain.IDSet { return u.Favorites },
	put:  func(u *domain.User, ids domain.IDSet) { u.Favorites = ids },
	roundTrip: func(c *portalapi.Client, item int) toggle.RoundTrip {
		return func(ctx context.Context, want bool) error {
			if want {
				return c.Organizations().AddFavorite(ctx, item)
			}
			return c.Organizations().RemoveFavorite(ctx, item)
		}
	},
	activated: "Организация добавлена в избранное",
	cleared:   "Организация удалена из избранного",
}

var savedMaterials = relation{
	kind: toggle.Saved,
	get:  func(u domain.User) domain.IDSet { return u.SavedMaterials },
	put:  func(u *domain.User, ids domain.IDSet) { u.SavedMaterials = ids },
	roundTrip: func(c *portalapi.Client, item int) toggle.RoundTrip {
		return func(ctx context.Context, want bool) error {
			if want {
				return c.Library().Add(ctx, item)
			}
			return c.Library().Remove(ctx, item)
		}
	},
	activated: "Материал сохранён в библиотеку",
	cleared:   "Материал удалён из библиотеки",
}

func registrations(details *domain.RegistrationDetails) relation {
	return relation{
		kind: toggle.Registration,
		get:  func(u domain.User) domain.IDSet { return u.EventRegistrations },
		put:  func(u *domain.User, ids domain.IDSet) { u.EventRegistrations = ids },
		roundTrip: func(c *portalapi.Client, item int) toggle.RoundTrip {
			return func(ctx context.Context, want bool) error {
				if want {
					return c.Events().Register(ctx, item, details)
				}
				return c.Events().Unregister(ctx, item)
			}
		},
		activated: "Вы зарегистрированы на мероприятие",
		cleared:   "Регистрация на мероприятие отменена",
	}
}

type MembershipService struct {
	client  *portalapi.Client
	repo    SessionRepository
	tracker *toggle.Tracker
	toasts  ToastPublisher
	builder *viewmodel.Builder

	// mu serialises read-modify-write of cached user blobs.
	mu sync.Mutex
}

func NewMembershipService(client *portalapi.Client, repo SessionRepository, tracker *toggle.Tracker, toasts ToastPublisher, builder *viewmodel.Builder) *MembershipService {
	return &MembershipService{
		client:  client,
		repo:    repo,
		tracker: tracker,
		toasts:  toasts,
		builder: builder,
	}
}

func (s *MembershipService) Forget(sessionID string) {
	s.tracker.Forget(sessionID)
}

func (s *MembershipService) SetFavorite(ctx context.Context, p domain.Principal, organizationID int, want bool) (Membership, error) {
	return s.set(ctx, p, favorites, organizationID, want)
}

func (s *MembershipService) SetRegistration(ctx context.Context, p domain.Principal, eventID int, want bool, details *domain.RegistrationDetails) (Membership, error) {
	return s.set(ctx, p, registrations(details), eventID, want)
}

func (s *MembershipService) SetSaved(ctx context.Context, p domain.Principal, materialID int, want bool) (Membership, error) {
	return s.set(ctx, p, savedMaterials, materialID, want)
}

func (s *MembershipService) set(ctx context.Context, p domain.Principal, rel relation, item int, want bool) (Membership, error) {
	session, ok := p.Session()
	if !ok {
		return Membership{}, ErrUnauthenticated
	}

	key := toggle.Key{Owner: session.ID.String(), Kind: rel.kind, Item: item}
	result := Membership{Kind: rel.kind, Item: item}

	if st, ok := s.tracker.State(key); ok && st.Phase == toggle.Pending {
		result.Active, result.Phase = st.Active, st.Phase.String()
		return result, ErrSubmitting
	}

	current := rel.get(session.User).Has(item)
	s.tracker.Seed(key, current)
	if current == want {
		result.Active, result.Phase = current, toggle.Committed.String()
		return result, nil
	}

	c := s.client.WithToken(session.AccessToken)
	active, err := s.tracker.Set(ctx, key, want, rel.roundTrip(c, item))
	result.Active = active
	if err != nil {
		if errors.Is(err, toggle.ErrSubmitting) {
			result.Phase = toggle.Pending.String()
			return result, ErrSubmitting
		}

		result.Phase = toggle.Failed.String()
		s.publish(session.ID, domain.NewToast(domain.ToastError, failureMessage(err)))

		return result, fmt.Errorf("s.tracker.Set -> %w", err)
	}
	result.Phase = toggle.Committed.String()

	if err = s.persist(ctx, session.ID, rel, item, active); err != nil {
		zap.L().Error("membership committed upstream but not cached",
			zap.String("session_id", session.ID.String()),
			zap.String("kind", string(rel.kind)),
			zap.Int("item", item),
			zap.Error(err),
		)
	}

	message := rel.cleared
	if active {
		message = rel.activated
	}
	s.publish(session.ID, domain.NewToast(domain.ToastSuccess, message))

	return result, nil
}

func (s *MembershipService) persist(ctx context.Context, id uuid.UUID, rel relation, item int, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fresh, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	rel.put(&fresh.User, rel.get(fresh.User).Set(item, active))

	if _, err = s.repo.Save(ctx, fresh); err != nil {
		return fmt.Errorf("s.repo.Save -> %w", err)
	}

	return nil
}

func (s *MembershipService) publish(id uuid.UUID, t domain.Toast) {
	if s.toasts == nil {
		return
	}
	s.toasts.Publish(id.String(), t)
}

// Library lists the materials the user saved.
func (s *MembershipService) Library(ctx context.Context, p domain.Principal) ([]viewmodel.MaterialCard, error) {
	session, ok := p.Session()
	if !ok {
		return nil, ErrUnauthenticated
	}

	items, err := s.client.WithToken(session.AccessToken).Library().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.client.Library().List -> %w", err)
	}

	materials := make([]domain.Material, 0, len(items))
	for _, it := range items {
		materials = append(materials, it.Material)
	}

	return s.builder.Materials(materials, p.Memberships()), nil
}
