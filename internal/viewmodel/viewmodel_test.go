package viewmodel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/G1ebS/rosatom-nko-sub000/internal/domain"
)

func TestDefaultPalette(t *testing.T) {
	p := DefaultPalette()

	assert.Equal(t, Colors{Background: "#00A651", Border: "#008a43", Text: "#ffffff"}, p.For("Экология"))
	assert.Equal(t, Colors{Background: "#F39C12", Border: "#E67E22", Text: "#ffffff"}, p.For("Спорт"))
	assert.Equal(t, Colors{Background: "#4896d2", Border: "#1a2165", Text: "#ffffff"}, p.For("Неизвестная"))
	assert.Equal(t, "#00A651", p.RegisteredBorder)
}

func TestParsePalette_RequiresDefault(t *testing.T) {
	_, err := ParsePalette([]byte("categories: {}\n"))
	assert.Error(t, err)

	p, err := ParsePalette([]byte("default: {background: a, border: b, text: c}\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, p.BorderWidth)
	assert.Equal(t, Colors{Background: "a", Border: "b", Text: "c"}, p.For("x"))
}

func TestBuilder_Flags(t *testing.T) {
	b := NewBuilder(nil)
	m := domain.Memberships{
		Favorites:          domain.IDSet{1},
		EventRegistrations: domain.IDSet{2},
		SavedMaterials:     domain.IDSet{3},
	}

	orgs := b.Organizations([]domain.Organization{{ID: 1}, {ID: 2}}, m)
	assert.True(t, orgs[0].IsFavorite)
	assert.False(t, orgs[1].IsFavorite)

	events := b.Events([]domain.Event{{ID: 2, Online: true}, {ID: 3}}, m)
	assert.True(t, events[0].IsRegistered)
	assert.Equal(t, "Онлайн", events[0].Format)
	assert.False(t, events[1].IsRegistered)
	assert.Equal(t, "Событие", events[1].CategoryName)

	mats := b.Materials([]domain.Material{{ID: 3, Type: "zip"}}, m)
	assert.True(t, mats[0].IsSaved)
	assert.Equal(t, domain.MaterialOther, mats[0].Kind)

	anon := b.Organizations([]domain.Organization{{ID: 1}}, domain.Anonymous().Memberships())
	assert.False(t, anon[0].IsFavorite)
}

func TestBuilder_CalendarEntry(t *testing.T) {
	b := NewBuilder(nil)
	e := domain.Event{
		ID:       2,
		Title:    "Субботник",
		Date:     time.Date(2025, 5, 17, 10, 0, 0, 0, time.UTC),
		Category: domain.CategoryRef{Name: "Культура"},
	}

	plain := b.CalendarEntry(e, domain.Memberships{})
	assert.Equal(t, "Субботник", plain.Title)
	assert.Equal(t, "#8E44AD", plain.BorderColor)
	assert.Equal(t, 1, plain.BorderWidth)
	assert.Equal(t, "2025-05-17T10:00:00", plain.Start)

	registered := b.CalendarEntry(e, domain.Memberships{EventRegistrations: domain.IDSet{2}})
	assert.Equal(t, "✓ Субботник", registered.Title)
	assert.Equal(t, "#00A651", registered.BorderColor)
	assert.Equal(t, 3, registered.BorderWidth)
	assert.Equal(t, "#9B59B6", registered.BackgroundColor)
	assert.Contains(t, registered.ClassNames, "event-registered")
}

func TestBuilder_Calendar(t *testing.T) {
	b := NewBuilder(nil)
	events := []domain.Event{
		{ID: 1, Date: time.Date(2025, 5, 17, 10, 0, 0, 0, time.UTC)},
		{ID: 2, Date: time.Date(2025, 5, 18, 10, 0, 0, 0, time.UTC)},
		{ID: 3, Date: time.Date(2025, 5, 17, 18, 0, 0, 0, time.UTC)},
	}

	cal := b.Calendar(events, domain.Memberships{}, "2025-05-17")
	assert.Len(t, cal.Entries, 3)
	require.NotNil(t, cal.Day)
	require.Len(t, cal.Day.Events, 2)
	assert.Equal(t, 1, cal.Day.Events[0].ID)
	assert.Equal(t, 3, cal.Day.Events[1].ID)

	assert.Nil(t, b.Calendar(events, domain.Memberships{}, "").Day)
}

func TestBuilder_NewsCityLabel(t *testing.T) {
	b := NewBuilder(nil)
	city := "Ангарск"

	assert.Equal(t, "Ангарск", b.News(domain.NewsItem{City: &city}).CityLabel)
	assert.Equal(t, "Все города", b.News(domain.NewsItem{}).CityLabel)
}
