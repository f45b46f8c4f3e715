package domain

import (
	"bytes"
	"encoding/json"
)

type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// CategoryRef is a category as embedded in other records. The backend sends
// either the full object or just its display name.
type CategoryRef struct {
	ID   int    `json:"id,omitempty"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

func (c *CategoryRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*c = CategoryRef{}
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var name string
		if err := json.Unmarshal(b, &name); err != nil {
			return err
		}
		*c = CategoryRef{Name: name}
		return nil
	}

	type plain CategoryRef
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*c = CategoryRef(p)

	return nil
}

func (c CategoryRef) IsZero() bool {
	return c.Name == "" && c.Slug == ""
}

// SlugFor translates a human label into the backend's filter key.
func SlugFor(categories []Category, label string) (string, bool) {
	for _, c := range categories {
		if c.Name == label || c.Slug == label {
			return c.Slug, true
		}
	}

	return "", false
}
