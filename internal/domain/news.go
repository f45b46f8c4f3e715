package domain

import "time"

type NewsStatus string

const (
	NewsPending   NewsStatus = "pending"
	NewsPublished NewsStatus = "published"
	NewsRejected  NewsStatus = "rejected"
)

// NewsItem with a nil City is shown in every city.
type NewsItem struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Snippet     string     `json:"snippet"`
	Content     string     `json:"content"`
	City        *string    `json:"city"`
	Category    string     `json:"category,omitempty"`
	Image       string     `json:"image,omitempty"`
	AuthorName  string     `json:"author_name,omitempty"`
	Status      NewsStatus `json:"status,omitempty"`
	ViewsCount  int        `json:"views_count"`
	Link        string     `json:"link,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

func (n NewsItem) CityName() string {
	if n.City == nil {
		return ""
	}

	return *n.City
}

type NewsDraft struct {
	Title    string `json:"title"`
	Snippet  string `json:"snippet,omitempty"`
	Content  string `json:"content"`
	City     string `json:"city,omitempty"`
	Category string `json:"category,omitempty"`
	// Image is uploaded as multipart when present.
	Image     []byte `json:"-"`
	ImageName string `json:"-"`
}
