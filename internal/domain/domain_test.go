package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryRef_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want CategoryRef
	}{
		{"object", `{"id":2,"name":"Экология","slug":"ecology"}`, CategoryRef{ID: 2, Name: "Экология", Slug: "ecology"}},
		{"string", `"Спорт"`, CategoryRef{Name: "Спорт"}},
		{"null", `null`, CategoryRef{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got CategoryRef
			require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSlugFor(t *testing.T) {
	cats := []Category{{ID: 1, Name: "Экология", Slug: "ecology"}, {ID: 2, Name: "Спорт", Slug: "sport"}}

	slug, ok := SlugFor(cats, "Спорт")
	assert.True(t, ok)
	assert.Equal(t, "sport", slug)

	slug, ok = SlugFor(cats, "ecology")
	assert.True(t, ok)
	assert.Equal(t, "ecology", slug)

	_, ok = SlugFor(cats, "Культура")
	assert.False(t, ok)
}

func TestEvent_UnmarshalJSON(t *testing.T) {
	t.Run("event_date and nested ngo", func(t *testing.T) {
		var e Event
		err := json.Unmarshal([]byte(`{
			"id": 4, "title": "Субботник", "event_date": "2025-05-17T10:00:00+08:00",
			"ngo": {"id": 9, "name": "Зелёный город", "city": "Ангарск"},
			"category": {"name": "Экология", "slug": "ecology"}
		}`), &e)
		require.NoError(t, err)

		assert.Equal(t, 4, e.ID)
		assert.Equal(t, "2025-05-17", e.Day())
		assert.Equal(t, "Ангарск", e.City, "city inherited from organisation")
		assert.Equal(t, 9, e.Organization.ID)
		assert.Equal(t, "ecology", e.Category.Slug)
	})

	t.Run("date alias, bare ngo id, own city", func(t *testing.T) {
		var e Event
		err := json.Unmarshal([]byte(`{"id": 5, "date": "2025-06-01", "ngo": 3, "city": "Все", "online": true, "category": "Спорт"}`), &e)
		require.NoError(t, err)

		assert.Equal(t, "2025-06-01", e.Day())
		assert.Equal(t, 3, e.Organization.ID)
		assert.Equal(t, "Все", e.City)
		assert.True(t, e.Online)
		assert.Equal(t, "Спорт", e.Category.Name)
	})

	t.Run("start_date", func(t *testing.T) {
		var e Event
		require.NoError(t, json.Unmarshal([]byte(`{"id": 6, "start_date": "2025-07-02T18:30"}`), &e))
		assert.Equal(t, "2025-07-02", e.Day())
	})

	t.Run("bad date", func(t *testing.T) {
		var e Event
		assert.Error(t, json.Unmarshal([]byte(`{"id": 7, "event_date": "someday"}`), &e))
	})
}

func TestTags_UnmarshalJSON(t *testing.T) {
	var m Material
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"tags":[{"id":1,"name":"гранты","slug":"grants"},"волонтёрство"]}`), &m))
	assert.Equal(t, Tags{"гранты", "волонтёрство"}, m.Tags)
}

func TestMaterial_KindOrOther(t *testing.T) {
	tests := []struct {
		in   MaterialType
		want MaterialType
	}{
		{"PDF", MaterialPDF},
		{"pdf", MaterialPDF},
		{"Video", MaterialVideo},
		{"LINK", MaterialLink},
		{"podcast", MaterialOther},
		{"", MaterialOther},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Material{Type: tt.in}.KindOrOther(), "type %q", tt.in)
	}
}

func TestIDSet(t *testing.T) {
	favorites := IDSet{3, 5}

	added := favorites.Toggle(7)
	assert.Equal(t, IDSet{3, 5, 7}, added)
	assert.Equal(t, IDSet{3, 5}, favorites, "receiver is not mutated")

	assert.Equal(t, IDSet{3, 5}, added.Toggle(7))
	assert.Equal(t, IDSet{3, 5, 7}, added.With(7))
	assert.Equal(t, IDSet{5}, favorites.Set(3, false))
}

func TestPrincipal(t *testing.T) {
	anon := Anonymous()
	assert.False(t, anon.IsAuthenticated())
	_, ok := anon.ViewKey()
	assert.False(t, ok)
	assert.Empty(t, anon.Memberships().Favorites)

	s := Session{User: User{ID: 1, Favorites: IDSet{2}}}
	p := Authenticated(s)
	assert.True(t, p.IsAuthenticated())
	assert.Equal(t, IDSet{2}, p.Memberships().Favorites)
	got, ok := p.Session()
	assert.True(t, ok)
	assert.Equal(t, 1, got.User.ID)
}

func TestUser_Role(t *testing.T) {
	assert.Equal(t, RoleAdmin, User{IsStaff: true}.Role())
	assert.Equal(t, RoleRegular, User{}.Role())
	assert.Equal(t, "Анна Петрова", User{FirstName: "Анна", LastName: "Петрова"}.DisplayName())
	assert.Equal(t, "anna", User{Username: "anna"}.DisplayName())
}
