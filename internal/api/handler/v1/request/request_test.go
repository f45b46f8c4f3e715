package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/G1ebS/rosatom-nko-sub000/internal/domain"
	"github.com/G1ebS/rosatom-nko-sub000/internal/listing"
)

func TestRegisterRequest_Validate(t *testing.T) {
	valid := func() RegisterRequest {
		return RegisterRequest{
			Email:    "anna@example.org",
			Password: "secret123",
			City:     "Ангарск",
		}
	}

	tests := []struct {
		name    string
		mutate  func(r *RegisterRequest)
		wantErr error
	}{
		{name: "valid", mutate: func(*RegisterRequest) {}},
		{name: "password without digit", mutate: func(r *RegisterRequest) { r.Password = "secretpassword" }, wantErr: errInvalidPassword},
		{name: "password too short", mutate: func(r *RegisterRequest) { r.Password = "abc12" }, wantErr: errInvalidPassword},
		{name: "confirm mismatch", mutate: func(r *RegisterRequest) { r.PasswordConfirm = "secret124" }, wantErr: errConfirmPasswordMismatch},
		{name: "matching confirm", mutate: func(r *RegisterRequest) { r.PasswordConfirm = "secret123" }},
		{name: "bad phone", mutate: func(r *RegisterRequest) { r.Phone = "call me" }, wantErr: errInvalidPhone},
		{name: "good phone", mutate: func(r *RegisterRequest) { r.Phone = "+7 (3955) 52-00-00" }},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			r := valid()
			tt.mutate(&r)

			err := r.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("missing email", func(t *testing.T) {
		r := valid()
		r.Email = ""

		assert.Error(t, r.Validate())
	})
}

func TestListQuery(t *testing.T) {
	t.Run("empty query is valid", func(t *testing.T) {
		q := ListQuery{}
		assert.NoError(t, q.Validate())
	})

	t.Run("unknown format", func(t *testing.T) {
		q := ListQuery{Format: "hybrid"}
		assert.Error(t, q.Validate())
	})

	t.Run("unknown material kind", func(t *testing.T) {
		q := ListQuery{Kind: "audio"}
		assert.Error(t, q.Validate())
	})

	t.Run("date must be a calendar day", func(t *testing.T) {
		q := ListQuery{Date: "2026-10-17T10:00"}
		assert.Error(t, q.Validate())

		q.Date = "2026-10-17"
		assert.NoError(t, q.Validate())
	})

	t.Run("facets carry every filter", func(t *testing.T) {
		q := ListQuery{City: "Ангарск", Category: "ecology", Format: listing.FormatOnline, Search: "парк", Kind: string(domain.MaterialPDF), Date: "2026-10-17", Page: 3}
		f := q.Facets()

		assert.Equal(t, "Ангарск", f.City)
		assert.Equal(t, "ecology", f.Category)
		assert.Equal(t, listing.FormatOnline, f.Format)
		assert.Equal(t, "парк", f.Search)
		assert.Equal(t, string(domain.MaterialPDF), f.Kind)
		assert.Equal(t, "2026-10-17", f.Date)
	})
}

func TestCreateEventRequest_Validate(t *testing.T) {
	zero := 0
	req := CreateEventRequest{
		Title:          "Субботник",
		Description:    "Уборка парка",
		Date:           "2026-11-01T10:00",
		OrganizationID: 4,
	}
	require.NoError(t, req.Validate())

	bad := req
	bad.Date = "первое ноября"
	assert.Error(t, bad.Validate())

	bad = req
	bad.MaxParticipants = &zero
	assert.Error(t, bad.Validate())

	bad = req
	bad.OrganizationID = 0
	assert.Error(t, bad.Validate())
}

func TestRegisterForEventRequest(t *testing.T) {
	empty := RegisterForEventRequest{}
	require.NoError(t, empty.Validate())
	assert.Nil(t, empty.ToDomain())

	filled := RegisterForEventRequest{Name: "Анна", Email: "anna@example.org"}
	require.NoError(t, filled.Validate())
	assert.Equal(t, &domain.RegistrationDetails{Name: "Анна", Email: "anna@example.org"}, filled.ToDomain())

	bad := RegisterForEventRequest{Email: "anna"}
	assert.Error(t, bad.Validate())
}

func TestUpdateMeRequest_Validate(t *testing.T) {
	empty := ""
	req := UpdateMeRequest{Email: &empty}

	assert.Error(t, req.Validate())
}
