package listing

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/G1ebS/rosatom-nko-sub000/internal/domain"
)

func sampleEvents() []domain.Event {
	cities := []string{"Ангарск", "Иркутск", "Все", "Ангарск", "Братск", "Иркутск", "Все", "Ангарск", "Усолье-Сибирское", "Братск"}
	events := make([]domain.Event, 0, len(cities))
	for i, city := range cities {
		events = append(events, domain.Event{
			ID:       i + 1,
			Title:    fmt.Sprintf("Событие %d", i+1),
			City:     city,
			Online:   i%2 == 0,
			Category: domain.CategoryRef{Name: []string{"Экология", "Спорт"}[i%2], Slug: []string{"ecology", "sport"}[i%2]},
			Date:     time.Date(2025, 5, 10+i%3, 12, 0, 0, 0, time.UTC),
		})
	}

	return events
}

func ids(events []domain.Event) []int {
	out := make([]int, 0, len(events))
	for _, e := range events {
		out = append(out, e.ID)
	}

	return out
}

func TestFilter_CityScenario(t *testing.T) {
	got := Filter(sampleEvents(), Facets{City: "Ангарск", Category: All}, EventFields)

	assert.Len(t, got, 5)
	assert.Equal(t, []int{1, 3, 4, 7, 8}, ids(got))
}

func TestFilter_AllIsNoop(t *testing.T) {
	events := sampleEvents()
	all := Facets{City: All, Category: All, Format: All, Kind: All}

	assert.Equal(t, events, Filter(events, all, EventFields))
	assert.Equal(t, events, Filter(events, Facets{}, EventFields))
}

func TestFilter_Subset(t *testing.T) {
	events := sampleEvents()
	byID := map[int]domain.Event{}
	for _, e := range events {
		byID[e.ID] = e
	}

	combos := []Facets{
		{City: "Иркутск"},
		{Category: "sport"},
		{Category: "Экология", Format: FormatOnline},
		{Format: FormatOffline, City: "Братск"},
		{Search: "событие 1"},
		{Date: "2025-05-11"},
		{City: "Нигде", Category: "Культура"},
	}
	for _, f := range combos {
		got := Filter(events, f, EventFields)
		assert.LessOrEqual(t, len(got), len(events))
		for _, e := range got {
			assert.Equal(t, byID[e.ID], e, "facets %+v", f)
		}
	}
}

func TestFilter_Predicates(t *testing.T) {
	events := sampleEvents()

	assert.Equal(t, []int{2, 4, 6, 8, 10}, ids(Filter(events, Facets{Category: "Спорт"}, EventFields)))
	assert.Equal(t, []int{2, 4, 6, 8, 10}, ids(Filter(events, Facets{Category: "sport"}, EventFields)))
	assert.Equal(t, []int{1, 3, 5, 7, 9}, ids(Filter(events, Facets{Format: FormatOnline}, EventFields)))
	assert.Equal(t, []int{1, 10}, ids(Filter(events, Facets{Search: "СОБЫТИЕ 1"}, EventFields)))
	assert.Equal(t, []int{2, 5, 8}, ids(Filter(events, Facets{Date: "2025-05-11"}, EventFields)))
}

func TestFilter_GlobalNews(t *testing.T) {
	city := "Иркутск"
	news := []domain.NewsItem{{ID: 1, City: &city}, {ID: 2}, {ID: 3, City: new(string)}}

	got := Filter(news, Facets{City: "Ангарск"}, NewsFields)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].ID)
	assert.Equal(t, 3, got[1].ID)
}

func TestFilter_MaterialKind(t *testing.T) {
	materials := []domain.Material{
		{ID: 1, Type: domain.MaterialPDF},
		{ID: 2, Type: domain.MaterialVideo},
		{ID: 3, Type: "podcast"},
	}

	got := Filter(materials, Facets{Kind: "other"}, MaterialFields)
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].ID)
}

func TestPaginate_Reconstructs(t *testing.T) {
	for n := 0; n <= 30; n++ {
		items := make([]int, n)
		for i := range items {
			items[i] = i
		}

		total := TotalPages(n, DirectoryPageSize)
		var joined []int
		for p := 1; p <= total; p++ {
			joined = append(joined, Paginate(items, p, DirectoryPageSize).Items...)
		}
		if n == 0 {
			assert.Empty(t, joined)
			continue
		}
		assert.Equal(t, items, joined, "n=%d", n)
	}
}

func TestPaginate_Clamps(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

	last := Paginate(items, 99, DirectoryPageSize)
	assert.Equal(t, 2, last.Page)
	assert.Equal(t, []int{10, 11, 12}, last.Items)

	first := Paginate(items, -3, DirectoryPageSize)
	assert.Equal(t, 1, first.Page)
	assert.Len(t, first.Items, 9)

	empty := Paginate([]int{}, 4, DirectoryPageSize)
	assert.Equal(t, 1, empty.Page)
	assert.Zero(t, empty.TotalPages)
	assert.Empty(t, empty.Items)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 2, TotalPages(12, 9))
	assert.Equal(t, 1, TotalPages(9, 9))
	assert.Equal(t, 0, TotalPages(0, 9))
}

func TestController_FacetChangeResetsPage(t *testing.T) {
	c := NewController[int]()
	c.SetPage(3)

	assert.False(t, c.SetFacets(Facets{}), "empty facets equal the initial All selection")
	assert.Equal(t, 3, c.Page())

	assert.True(t, c.SetFacets(Facets{City: "Ангарск"}))
	assert.Equal(t, 1, c.Page())

	c.Apply(Facets{City: "Ангарск"}, 2)
	assert.Equal(t, 2, c.Page())

	c.Apply(Facets{City: "Ангарск", Search: "сад"}, 2)
	assert.Equal(t, 1, c.Page(), "a requested page is ignored when a facet changed")
}

func TestController_DiscardsStaleCommits(t *testing.T) {
	c := NewController[int]()

	slow := c.Begin()
	fast := c.Begin()

	require.NoError(t, c.Commit(fast, []int{2}))
	assert.ErrorIs(t, c.Commit(slow, []int{1}), ErrSuperseded)
	assert.Equal(t, []int{2}, c.Items())
}

func TestController_CommitViewCutsOwnItems(t *testing.T) {
	c := NewController[int]()

	c.Apply(Facets{City: "A"}, 0)
	first := c.Begin()
	v, err := c.CommitView(first, []int{1, 2, 3}, 9)
	require.NoError(t, err)

	c.Apply(Facets{City: "B"}, 0)
	second := c.Begin()
	_, err = c.CommitView(second, []int{9}, 9)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, v.Items, "a later commit does not leak into an earlier view")
	assert.Equal(t, []int{9}, c.Items())
}

func TestController_CommitViewSuperseded(t *testing.T) {
	c := NewController[int]()

	c.Apply(Facets{City: "A"}, 0)
	slow := c.Begin()
	c.Apply(Facets{City: "B"}, 0)
	fast := c.Begin()

	v, err := c.CommitView(fast, []int{9}, 9)
	require.NoError(t, err)
	assert.Equal(t, []int{9}, v.Items)

	_, err = c.CommitView(slow, []int{1, 2, 3}, 9)
	assert.ErrorIs(t, err, ErrSuperseded)
	assert.Equal(t, []int{9}, c.Items())
}

func TestController_CommitViewClampsPage(t *testing.T) {
	c := NewController[int]()
	c.SetPage(5)

	v, err := c.CommitView(c.Begin(), []int{1, 2, 3, 4}, 3)
	require.NoError(t, err)

	assert.Equal(t, 2, v.Page)
	assert.Equal(t, []int{4}, v.Items)
	assert.Equal(t, 2, c.Page())
}

func TestRegistry(t *testing.T) {
	r := NewRegistry[int](time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	a := r.Get("s1", "events")
	assert.Same(t, a, r.Get("s1", "events"))
	assert.NotSame(t, a, r.Get("s1", "ngos"))
	assert.NotSame(t, a, r.Get("s2", "events"))
	assert.Equal(t, 3, r.Len())

	r.Drop("s1")
	assert.Equal(t, 1, r.Len())

	now = now.Add(2 * time.Minute)
	r.Get("s3", "news")
	assert.Equal(t, 1, r.Len(), "idle controllers are evicted")
}
