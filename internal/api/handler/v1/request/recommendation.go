package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/G1ebS/rosatom-nko-sub000/internal/domain"
	"github.com/G1ebS/rosatom-nko-sub000/internal/recommend"
)

const maxCandidates = 500

// RecommendRequest ranks candidates for a profile without a session. With no
// candidates the published organisations are ranked.
type RecommendRequest struct {
	Profile    recommend.Profile     `json:"user_profile"`
	Candidates []domain.Organization `json:"ngos"`
}

func (req *RecommendRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Candidates, validation.Length(0, maxCandidates)),
	)
}
