package domain

import "strings"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleRegular Role = "regular"
)

type User struct {
	ID                 int      `json:"id"`
	Username           string   `json:"username"`
	Email              string   `json:"email"`
	FirstName          string   `json:"first_name"`
	LastName           string   `json:"last_name"`
	City               string   `json:"city"`
	Phone              string   `json:"phone"`
	Bio                string   `json:"bio,omitempty"`
	Interests          []string `json:"interests"`
	Favorites          IDSet    `json:"favorites"`
	EventRegistrations IDSet    `json:"event_registrations"`
	SavedMaterials     IDSet    `json:"saved_materials"`
	IsStaff            bool     `json:"is_staff"`
	IsSuperuser        bool     `json:"is_superuser"`
}

func (u User) Role() Role {
	if u.IsStaff || u.IsSuperuser {
		return RoleAdmin
	}

	return RoleRegular
}

func (u User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name != "" {
		return name
	}
	if u.Username != "" {
		return u.Username
	}

	return u.Email
}

// ProfileUpdate carries the fields of PATCH auth/me; nil means unchanged.
type ProfileUpdate struct {
	Email     *string   `json:"email,omitempty"`
	FirstName *string   `json:"first_name,omitempty"`
	LastName  *string   `json:"last_name,omitempty"`
	City      *string   `json:"city,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Bio       *string   `json:"bio,omitempty"`
	Interests *[]string `json:"interests,omitempty"`
}

type Registration struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	City            string `json:"city"`
	Phone           string `json:"phone"`
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}
