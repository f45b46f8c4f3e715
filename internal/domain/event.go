package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// OrganizationRef is the parent organisation of an event: a nested summary
// or, from older endpoints, just its id.
type OrganizationRef struct {
	ID   int    `json:"id"`
	Name string `json:"name,omitempty"`
	City string `json:"city,omitempty"`
}

func (o *OrganizationRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*o = OrganizationRef{}
		return nil
	}

	if len(b) > 0 && b[0] != '{' {
		var id int
		if err := json.Unmarshal(b, &id); err != nil {
			return err
		}
		*o = OrganizationRef{ID: id}
		return nil
	}

	type plain OrganizationRef
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*o = OrganizationRef(p)

	return nil
}

type Event struct {
	ID              int             `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Date            time.Time       `json:"event_date"`
	City            string          `json:"city"`
	Location        string          `json:"location,omitempty"`
	Online          bool            `json:"online"`
	Category        CategoryRef     `json:"category"`
	Subcategory     string          `json:"subcategory,omitempty"`
	Organization    OrganizationRef `json:"ngo"`
	MaxParticipants *int            `json:"max_participants,omitempty"`
	RegisteredCount int             `json:"registered_count"`
	Image           string          `json:"image,omitempty"`
}

var eventDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func ParseEventDate(s string) (time.Time, error) {
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognised event date %q", s)
}

func (e *Event) UnmarshalJSON(b []byte) error {
	type plain Event
	var raw struct {
		plain
		Date      *string `json:"event_date"`
		AltDate   *string `json:"date"`
		StartDate *string `json:"start_date"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*e = Event(raw.plain)

	for _, candidate := range []*string{raw.Date, raw.AltDate, raw.StartDate} {
		if candidate == nil || *candidate == "" {
			continue
		}
		t, err := ParseEventDate(*candidate)
		if err != nil {
			return err
		}
		e.Date = t
		break
	}

	// Events without their own city inherit the organisation's.
	if e.City == "" {
		e.City = e.Organization.City
	}

	return nil
}

// Day is the calendar day of the event in its own offset.
func (e Event) Day() string {
	if e.Date.IsZero() {
		return ""
	}

	return e.Date.Format(time.DateOnly)
}

type RegistrationDetails struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// EventDraft is the writable subset of an event.
type EventDraft struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Date            string `json:"event_date"`
	City            string `json:"city,omitempty"`
	Location        string `json:"location,omitempty"`
	Online          bool   `json:"online"`
	Category        string `json:"category,omitempty"`
	Subcategory     string `json:"subcategory,omitempty"`
	OrganizationID  int    `json:"ngo"`
	MaxParticipants *int   `json:"max_participants,omitempty"`
}
