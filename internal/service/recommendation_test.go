package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/G1ebS/rosatom-nko-sub000/internal/domain"
	"github.com/G1ebS/rosatom-nko-sub000/internal/recommend"
)

func TestRecommendationService_ForPrincipal(t *testing.T) {
	client := newUpstream(t, map[string]http.HandlerFunc{
		"/ngos/": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer acc", r.Header.Get("Authorization"))
			writeJSON(w, http.StatusOK, []map[string]any{
				{"id": 1, "name": "Дальние", "city": "Саров"},
				{"id": 2, "name": "Свои", "city": "Ангарск", "category": "Экология"},
			})
		},
	})
	svc := NewRecommendationService(client, recommend.Heuristic{DefaultCity: "Ангарск"})

	res, err := svc.ForPrincipal(context.Background(), signedIn(domain.User{ID: 1, City: "Ангарск", Interests: []string{"Экология"}}))
	require.NoError(t, err)

	assert.Equal(t, recommend.StrategyHeuristic, res.Strategy)
	require.Len(t, res.Organizations, 2)
	assert.Equal(t, 2, res.Organizations[0].ID)

	_, err = svc.ForPrincipal(context.Background(), domain.Anonymous())
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestRecommendationService_Rank_SuppliedCandidates(t *testing.T) {
	svc := NewRecommendationService(nil, recommend.Heuristic{DefaultCity: "Ангарск"})

	candidates := []domain.Organization{
		{ID: 1, City: "Саров"},
		{ID: 2, City: "Все"},
		{ID: 3},
	}

	res, err := svc.Rank(context.Background(), recommend.Profile{}, candidates)
	require.NoError(t, err)

	require.Len(t, res.Organizations, 3)
	assert.Equal(t, 2, res.Organizations[0].ID)
}
