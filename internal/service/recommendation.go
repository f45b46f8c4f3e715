package service

import (
	"context"
	"fmt"

	"github.com/G1ebS/rosatom-nko-sub000/internal/domain"
	"github.com/G1ebS/rosatom-nko-sub000/internal/portalapi"
	"github.com/G1ebS/rosatom-nko-sub000/internal/recommend"
)

type RecommendationService struct {
	client   *portalapi.Client
	strategy recommend.Strategy
}

func NewRecommendationService(client *portalapi.Client, strategy recommend.Strategy) *RecommendationService {
	return &RecommendationService{
		client:   client,
		strategy: strategy,
	}
}

// ForPrincipal ranks the published organisations for the signed-in user.
func (s *RecommendationService) ForPrincipal(ctx context.Context, p domain.Principal) (recommend.Result, error) {
	session, ok := p.Session()
	if !ok {
		return recommend.Result{}, ErrUnauthenticated
	}

	c := s.client.WithToken(session.AccessToken)
	candidates, err := collect(ctx, c.Organizations().List)
	if err != nil {
		return recommend.Result{}, fmt.Errorf("s.client.Organizations().List -> %w", err)
	}

	return s.strategy.Recommend(ctx, recommend.ProfileFor(session.User), candidates), nil
}

// Rank ranks the supplied candidates for a supplied profile. Without
// candidates the published organisations are ranked.
func (s *RecommendationService) Rank(ctx context.Context, profile recommend.Profile, candidates []domain.Organization) (recommend.Result, error) {
	if len(candidates) == 0 {
		var err error
		candidates, err = collect(ctx, s.client.Organizations().List)
		if err != nil {
			return recommend.Result{}, fmt.Errorf("s.client.Organizations().List -> %w", err)
		}
	}

	return s.strategy.Recommend(ctx, profile, candidates), nil
}
