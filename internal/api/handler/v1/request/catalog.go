package request

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/G1ebS/rosatom-nko-sub000/internal/domain"
	"github.com/G1ebS/rosatom-nko-sub000/internal/listing"
)

var errInvalidDate = errors.New("date must be in YYYY-MM-DD format")

func validDate(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := time.Parse(time.DateOnly, s); err != nil {
		return errInvalidDate
	}

	return nil
}

// ListQuery is the query string of every list view. An omitted page keeps
// the page the view is on.
type ListQuery struct {
	City     string `form:"city"`
	Category string `form:"category"`
	Format   string `form:"format"`
	Search   string `form:"search"`
	Kind     string `form:"kind"`
	Date     string `form:"date"`
	Page     int    `form:"page"`
}

func (q *ListQuery) Validate() error {
	return validation.ValidateStruct(
		q,
		validation.Field(&q.Format, validation.In(listing.All, listing.FormatOnline, listing.FormatOffline)),
		validation.Field(&q.Kind, validation.In(
			listing.All,
			string(domain.MaterialPDF),
			string(domain.MaterialVideo),
			string(domain.MaterialLink),
			string(domain.MaterialOther),
		)),
		validation.Field(&q.Date, validation.By(validDate)),
		validation.Field(&q.Page, validation.Min(0)),
		validation.Field(&q.Search, validation.Length(0, 200)),
	)
}

func (q *ListQuery) Facets() listing.Facets {
	return listing.Facets{
		City:     q.City,
		Category: q.Category,
		Format:   q.Format,
		Search:   q.Search,
		Kind:     q.Kind,
		Date:     q.Date,
	}
}

// CreateNewsRequest is bound from a multipart form; the image part is
// optional.
type CreateNewsRequest struct {
	Title    string `form:"title" json:"title"`
	Snippet  string `form:"snippet" json:"snippet"`
	Content  string `form:"content" json:"content"`
	City     string `form:"city" json:"city"`
	Category string `form:"category" json:"category"`
}

func (req *CreateNewsRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Content, validation.Required),
		validation.Field(&req.Snippet, validation.Length(0, 300)),
	)
}

func (req *CreateNewsRequest) ToDomain() domain.NewsDraft {
	return domain.NewsDraft{
		Title:    req.Title,
		Snippet:  req.Snippet,
		Content:  req.Content,
		City:     req.City,
		Category: req.Category,
	}
}

type CreateEventRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Date            string `json:"event_date"`
	City            string `json:"city"`
	Location        string `json:"location"`
	Online          bool   `json:"online"`
	Category        string `json:"category"`
	Subcategory     string `json:"subcategory"`
	OrganizationID  int    `json:"ngo"`
	MaxParticipants *int   `json:"max_participants"`
}

func (req *CreateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Description, validation.Required),
		validation.Field(&req.Date, validation.Required, validation.By(validEventDate)),
		validation.Field(&req.OrganizationID, validation.Required, validation.Min(1)),
		validation.Field(&req.MaxParticipants, validation.NilOrNotEmpty, validation.Min(1)),
	)
}

func validEventDate(value any) error {
	s, _ := value.(string)
	if _, err := domain.ParseEventDate(s); err != nil {
		return errors.New("event_date is not a valid date")
	}

	return nil
}

func (req *CreateEventRequest) ToDomain() domain.EventDraft {
	return domain.EventDraft{
		Title:           req.Title,
		Description:     req.Description,
		Date:            req.Date,
		City:            req.City,
		Location:        req.Location,
		Online:          req.Online,
		Category:        req.Category,
		Subcategory:     req.Subcategory,
		OrganizationID:  req.OrganizationID,
		MaxParticipants: req.MaxParticipants,
	}
}

// RegisterForEventRequest carries the optional contact details sent along
// with an event registration.
type RegisterForEventRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (req *RegisterForEventRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Email, is.Email),
		validation.Field(&req.Name, validation.Length(0, 200)),
	)
	if err != nil {
		return err
	}

	if req.Phone != "" && !matches(phoneExp, req.Phone) {
		return errInvalidPhone
	}

	return nil
}

func (req *RegisterForEventRequest) ToDomain() *domain.RegistrationDetails {
	if req.Name == "" && req.Email == "" && req.Phone == "" {
		return nil
	}

	return &domain.RegistrationDetails{Name: req.Name, Email: req.Email, Phone: req.Phone}
}
