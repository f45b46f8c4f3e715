package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

type MaterialType string

const (
	MaterialPDF   MaterialType = "PDF"
	MaterialVideo MaterialType = "video"
	MaterialLink  MaterialType = "link"
	MaterialOther MaterialType = "other"
)

// Tags decodes both `["a","b"]` and `[{"name":"a","slug":"a"}]`.
type Tags []string

func (t *Tags) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*t = nil
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		return err
	}

	tags := make(Tags, 0, len(items))
	for _, item := range items {
		var name string
		if err := json.Unmarshal(item, &name); err == nil {
			tags = append(tags, name)
			continue
		}

		var obj struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(item, &obj); err != nil {
			return err
		}
		tags = append(tags, obj.Name)
	}
	*t = tags

	return nil
}

type Material struct {
	ID          int          `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Type        MaterialType `json:"type"`
	URL         string       `json:"url"`
	Course      string       `json:"course,omitempty"`
	Author      string       `json:"author,omitempty"`
	Tags        Tags         `json:"tags"`
	ViewsCount  int          `json:"views_count"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// KindOrOther reports the canonical material type, matched case-insensitively
// and treating unknown values as "other".
func (m Material) KindOrOther() MaterialType {
	for _, kind := range []MaterialType{MaterialPDF, MaterialVideo, MaterialLink} {
		if strings.EqualFold(string(m.Type), string(kind)) {
			return kind
		}
	}

	return MaterialOther
}

type LibraryItem struct {
	ID        int       `json:"id"`
	Material  Material  `json:"material"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}
