package listing

import (
	"github.com/G1ebS/rosatom-nko-sub000/internal/domain"
)

func OrganizationFields(o domain.Organization) Fields {
	return Fields{
		City:       o.City,
		Categories: []string{o.Category.Name, o.Category.Slug},
		Text:       []string{o.Name, o.ShortDescription, o.Description},
	}
}

func EventFields(e domain.Event) Fields {
	online := e.Online

	return Fields{
		City:       e.City,
		Categories: []string{e.Category.Name, e.Category.Slug, e.Subcategory},
		Online:     &online,
		Day:        e.Day(),
		Text:       []string{e.Title, e.Description, e.Organization.Name},
	}
}

func MaterialFields(m domain.Material) Fields {
	text := append([]string{m.Title, m.Description, m.Author}, m.Tags...)

	return Fields{
		Categories: m.Tags,
		Kind:       string(m.KindOrOther()),
		Text:       text,
	}
}

func NewsFields(n domain.NewsItem) Fields {
	return Fields{
		City:       n.CityName(),
		Categories: []string{n.Category},
		Text:       []string{n.Title, n.Snippet, n.Content},
	}
}
