package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is the single persisted form of a signed-in user: the upstream
// token pair plus the user blob cached at login.
type Session struct {
	ID           uuid.UUID `json:"id"`
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	User         User      `json:"user"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

type principalKind int

const (
	anonymous principalKind = iota
	authenticated
)

// Principal is whoever issued a request: either anonymous or a session.
type Principal struct {
	kind    principalKind
	session Session
}

func Anonymous() Principal {
	return Principal{kind: anonymous}
}

func Authenticated(s Session) Principal {
	return Principal{kind: authenticated, session: s}
}

func (p Principal) IsAuthenticated() bool {
	return p.kind == authenticated
}

func (p Principal) Session() (Session, bool) {
	return p.session, p.kind == authenticated
}

// Memberships returns the id-sets the view flags derive from; anonymous
// principals get empty sets.
func (p Principal) Memberships() Memberships {
	if p.kind != authenticated {
		return Memberships{}
	}

	u := p.session.User

	return Memberships{
		Favorites:          u.Favorites,
		EventRegistrations: u.EventRegistrations,
		SavedMaterials:     u.SavedMaterials,
	}
}

// ViewKey names the cached list state of this principal. Anonymous
// principals have none and get stateless views.
func (p Principal) ViewKey() (string, bool) {
	if p.kind != authenticated {
		return "", false
	}

	return p.session.ID.String(), true
}

type Memberships struct {
	Favorites          IDSet
	EventRegistrations IDSet
	SavedMaterials     IDSet
}
