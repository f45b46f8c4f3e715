package domain

import "time"

type OrganizationStatus string

const (
	OrganizationPending  OrganizationStatus = "pending"
	OrganizationApproved OrganizationStatus = "approved"
	OrganizationRejected OrganizationStatus = "rejected"
)

type Organization struct {
	ID                int                `json:"id"`
	Name              string             `json:"name"`
	Slug              string             `json:"slug,omitempty"`
	City              string             `json:"city"`
	Category          CategoryRef        `json:"category"`
	ShortDescription  string             `json:"short_description"`
	Description       string             `json:"description"`
	Address           string             `json:"address,omitempty"`
	Website           string             `json:"website,omitempty"`
	Email             string             `json:"email,omitempty"`
	Phone             string             `json:"phone,omitempty"`
	Logo              string             `json:"logo,omitempty"`
	Rating            float64            `json:"rating"`
	ParticipantsCount int                `json:"participants_count"`
	EventsCount       int                `json:"events_count"`
	Status            OrganizationStatus `json:"status,omitempty"`
	CreatedBy         *int               `json:"created_by,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// OrganizationDraft is the writable part of an organisation.
type OrganizationDraft struct {
	Name             string `json:"name"`
	CategoryID       int    `json:"category_id"`
	ShortDescription string `json:"short_description"`
	Description      string `json:"description"`
	City             string `json:"city"`
	Address          string `json:"address,omitempty"`
	Website          string `json:"website,omitempty"`
	Email            string `json:"email,omitempty"`
	Phone            string `json:"phone,omitempty"`
}
