// Package recommend ranks organisations for a user profile.
package recommend

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/G1ebS/rosatom-nko-sub000/internal/domain"
)

// Limit is how many organisations a ranking returns.
const Limit = 5

const (
	StrategyHeuristic = "heuristic"
	StrategyEmbedding = "embedding"
)

const (
	weightSameCity       = 10
	weightAnyCity        = 5
	weightOtherCity      = 1
	weightExactInterest  = 15
	weightPartialMatch   = 8
	weightNoInterests    = 5
	weightActivity       = 12
	weightFavorited      = -1
	weightLongDesc       = 3
	weightBase           = 2
	longDescriptionRunes = 50
)

type Activity struct {
	OrganizationID int    `json:"ngo_id,omitempty"`
	Category       string `json:"category,omitempty"`
}

type Profile struct {
	City      string       `json:"city"`
	Interests []string     `json:"interests"`
	Favorites domain.IDSet `json:"favorites"`
	History   []Activity   `json:"activity_history"`
}

func ProfileFor(u domain.User) Profile {
	return Profile{
		City:      u.City,
		Interests: u.Interests,
		Favorites: u.Favorites,
	}
}

type Result struct {
	Organizations []domain.Organization `json:"organizations"`
	Strategy      string                `json:"strategy"`
}

// Strategy is one way of ranking candidates. Implementations never fail:
// they degrade to the heuristic instead.
type Strategy interface {
	Recommend(ctx context.Context, p Profile, candidates []domain.Organization) Result
}

// Heuristic scores candidates with fixed weights. It has no random part, so
// equal inputs give equal rankings.
type Heuristic struct {
	DefaultCity string
}

func (h Heuristic) Recommend(_ context.Context, p Profile, candidates []domain.Organization) Result {
	return Result{Organizations: h.Rank(p, candidates), Strategy: StrategyHeuristic}
}

// Rank returns the top Limit candidates by score; ties keep input order.
func (h Heuristic) Rank(p Profile, candidates []domain.Organization) []domain.Organization {
	type scored struct {
		org   domain.Organization
		score int
	}

	list := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		list = append(list, scored{org: c, score: h.Score(p, c)})
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].score > list[j].score
	})

	n := min(Limit, len(list))
	out := make([]domain.Organization, 0, n)
	for _, s := range list[:n] {
		out = append(out, s.org)
	}

	return out
}

func (h Heuristic) Score(p Profile, o domain.Organization) int {
	city := p.City
	if city == "" {
		city = h.DefaultCity
	}

	score := 0
	switch o.City {
	case city:
		score += weightSameCity
	case "Все":
		score += weightAnyCity
	default:
		score += weightOtherCity
	}

	category := o.Category.Name
	if len(p.Interests) > 0 && category != "" {
		score += interestScore(p.Interests, category, o.ShortDescription)
	}
	if len(p.Interests) == 0 {
		score += weightNoInterests
	}

	for _, a := range p.History {
		if (a.OrganizationID != 0 && a.OrganizationID == o.ID) || (a.Category != "" && a.Category == category) {
			score += weightActivity
			break
		}
	}

	if p.Favorites.Has(o.ID) {
		score += weightFavorited
	}
	if utf8.RuneCountInString(o.ShortDescription) > longDescriptionRunes {
		score += weightLongDesc
	}

	return score + weightBase
}

// An exact interest match wins outright; otherwise every interest found in
// the category or description counts.
func interestScore(interests []string, category, description string) int {
	for _, in := range interests {
		if in == category {
			return weightExactInterest
		}
	}

	cat := strings.ToLower(category)
	desc := strings.ToLower(description)
	score := 0
	for _, in := range interests {
		needle := strings.ToLower(in)
		if strings.Contains(cat, needle) || strings.Contains(desc, needle) {
			score += weightPartialMatch
		}
	}

	return score
}
