package viewmodel

import (
	"github.com/G1ebS/rosatom-nko-sub000/internal/domain"
)

type OrganizationCard struct {
	domain.Organization
	Colors     Colors `json:"colors"`
	IsFavorite bool   `json:"is_favorite"`
}

type EventCard struct {
	domain.Event
	CategoryName string `json:"category_name"`
	Colors       Colors `json:"colors"`
	IsRegistered bool   `json:"is_registered"`
	Format       string `json:"format"`
}

type MaterialCard struct {
	domain.Material
	Kind    domain.MaterialType `json:"kind"`
	IsSaved bool                `json:"is_saved"`
}

type NewsCard struct {
	domain.NewsItem
	CityLabel string `json:"city_label"`
}

// CalendarEntry is one event as the calendar widget draws it.
type CalendarEntry struct {
	ID              int      `json:"id"`
	Title           string   `json:"title"`
	Start           string   `json:"start"`
	BackgroundColor string   `json:"backgroundColor"`
	BorderColor     string   `json:"borderColor"`
	BorderWidth     int      `json:"borderWidth"`
	TextColor       string   `json:"textColor"`
	ClassNames      []string `json:"classNames"`
	Category        string   `json:"category"`
	Subcategory     string   `json:"subcategory,omitempty"`
	IsRegistered    bool     `json:"isRegistered"`
}

type Builder struct {
	palette *Palette
}

func NewBuilder(p *Palette) *Builder {
	if p == nil {
		p = DefaultPalette()
	}

	return &Builder{palette: p}
}

func (b *Builder) Palette() *Palette {
	return b.palette
}

func (b *Builder) categoryName(c domain.CategoryRef) string {
	if c.Name != "" {
		return c.Name
	}
	if c.Slug != "" {
		return c.Slug
	}

	return b.palette.FallbackCategory
}

func (b *Builder) Organization(o domain.Organization, m domain.Memberships) OrganizationCard {
	return OrganizationCard{
		Organization: o,
		Colors:       b.palette.For(o.Category.Name),
		IsFavorite:   m.Favorites.Has(o.ID),
	}
}

func (b *Builder) Organizations(items []domain.Organization, m domain.Memberships) []OrganizationCard {
	out := make([]OrganizationCard, 0, len(items))
	for _, o := range items {
		out = append(out, b.Organization(o, m))
	}

	return out
}

func (b *Builder) Event(e domain.Event, m domain.Memberships) EventCard {
	name := b.categoryName(e.Category)
	format := "Офлайн"
	if e.Online {
		format = "Онлайн"
	}

	return EventCard{
		Event:        e,
		CategoryName: name,
		Colors:       b.palette.For(name),
		IsRegistered: m.EventRegistrations.Has(e.ID),
		Format:       format,
	}
}

func (b *Builder) Events(items []domain.Event, m domain.Memberships) []EventCard {
	out := make([]EventCard, 0, len(items))
	for _, e := range items {
		out = append(out, b.Event(e, m))
	}

	return out
}

func (b *Builder) Material(mat domain.Material, m domain.Memberships) MaterialCard {
	return MaterialCard{
		Material: mat,
		Kind:     mat.KindOrOther(),
		IsSaved:  m.SavedMaterials.Has(mat.ID),
	}
}

func (b *Builder) Materials(items []domain.Material, m domain.Memberships) []MaterialCard {
	out := make([]MaterialCard, 0, len(items))
	for _, mat := range items {
		out = append(out, b.Material(mat, m))
	}

	return out
}

func (b *Builder) News(n domain.NewsItem) NewsCard {
	label := n.CityName()
	if label == "" {
		label = "Все города"
	}

	return NewsCard{NewsItem: n, CityLabel: label}
}

func (b *Builder) NewsList(items []domain.NewsItem) []NewsCard {
	out := make([]NewsCard, 0, len(items))
	for _, n := range items {
		out = append(out, b.News(n))
	}

	return out
}

// CalendarEntry marks events the viewer is registered for with the
// registered border and a title prefix.
func (b *Builder) CalendarEntry(e domain.Event, m domain.Memberships) CalendarEntry {
	card := b.Event(e, m)

	entry := CalendarEntry{
		ID:              e.ID,
		Title:           e.Title,
		BackgroundColor: card.Colors.Background,
		BorderColor:     card.Colors.Border,
		BorderWidth:     b.palette.BorderWidth,
		TextColor:       card.Colors.Text,
		ClassNames:      []string{"event-card"},
		Category:        card.CategoryName,
		Subcategory:     e.Subcategory,
		IsRegistered:    card.IsRegistered,
	}
	if !e.Date.IsZero() {
		entry.Start = e.Date.Format("2006-01-02T15:04:05")
	}
	if card.IsRegistered {
		entry.Title = b.palette.RegisteredPrefix + e.Title
		entry.BorderColor = b.palette.RegisteredBorder
		entry.BorderWidth = b.palette.RegisteredBorderWidth
		entry.ClassNames = append(entry.ClassNames, "event-registered")
	}

	return entry
}

type Calendar struct {
	Entries []CalendarEntry `json:"entries"`
	// Day is set when a date was selected.
	Day *CalendarDay `json:"day,omitempty"`
}

type CalendarDay struct {
	Date   string      `json:"date"`
	Events []EventCard `json:"events"`
}

// Calendar lays out events, already filtered, and the events of day when
// day is not empty.
func (b *Builder) Calendar(events []domain.Event, m domain.Memberships, day string) Calendar {
	cal := Calendar{Entries: make([]CalendarEntry, 0, len(events))}
	for _, e := range events {
		cal.Entries = append(cal.Entries, b.CalendarEntry(e, m))
	}

	if day == "" {
		return cal
	}

	selected := CalendarDay{Date: day, Events: []EventCard{}}
	for _, e := range events {
		if e.Day() == day {
			selected.Events = append(selected.Events, b.Event(e, m))
		}
	}
	cal.Day = &selected

	return cal
}
