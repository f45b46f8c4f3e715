// Package newsfeed pulls partner organisations' RSS and Atom feeds and maps
// their entries onto news items.
package newsfeed

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/G1ebS/rosatom-nko-sub000/internal/domain"
)

// MaxConcurrency bounds how many feeds are fetched at once.
const MaxConcurrency = 4

const snippetRunes = 200

type Source struct {
	URL string
	// City is assigned to every item of the feed; empty means all cities.
	City string
}

type Fetcher struct {
	sources []Source
	ttl     time.Duration
	now     func() time.Time

	mu        sync.Mutex
	items     []domain.NewsItem
	fetchedAt time.Time
}

func NewFetcher(sources []Source, ttl time.Duration) *Fetcher {
	return &Fetcher{
		sources: sources,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Items returns the entries of every source, newest first, refetching when
// the cached set is older than the TTL. A failing source is logged and
// skipped.
func (f *Fetcher) Items(ctx context.Context) ([]domain.NewsItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.items != nil && f.now().Sub(f.fetchedAt) < f.ttl {
		return f.items, nil
	}

	items, err := f.fetchAll(ctx)
	if err != nil {
		return nil, err
	}
	f.items = items
	f.fetchedAt = f.now()

	return items, nil
}

func (f *Fetcher) fetchAll(ctx context.Context) ([]domain.NewsItem, error) {
	results := make([][]domain.NewsItem, len(f.sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxConcurrency)
	for i, src := range f.sources {
		i, src := i, src
		g.Go(func() error {
			items, err := f.FetchSource(gctx, src)
			if err != nil {
				zap.L().Warn("partner feed unavailable", zap.String("url", src.URL), zap.Error(err))
				return nil
			}
			results[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	all := []domain.NewsItem{}
	for _, r := range results {
		all = append(all, r...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return published(all[i]).After(published(all[j]))
	})

	return all, nil
}

func (f *Fetcher) FetchSource(ctx context.Context, src Source) ([]domain.NewsItem, error) {
	// Parsers keep per-document state, so each fetch gets its own.
	feed, err := gofeed.NewParser().ParseURLWithContext(src.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", src.URL, err)
	}

	now := f.now()
	items := make([]domain.NewsItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		items = append(items, ToNewsItem(feed, it, src.City, now))
	}

	return items, nil
}

// ToNewsItem maps a feed entry; entries without a date are stamped with now.
func ToNewsItem(feed *gofeed.Feed, it *gofeed.Item, city string, now time.Time) domain.NewsItem {
	pub := now
	if it.PublishedParsed != nil {
		pub = *it.PublishedParsed
	} else if it.UpdatedParsed != nil {
		pub = *it.UpdatedParsed
	}

	content := it.Content
	if content == "" {
		content = it.Description
	}
	snippet := it.Description
	if snippet == "" {
		snippet = content
	}

	item := domain.NewsItem{
		Title:       strings.TrimSpace(it.Title),
		Snippet:     truncate(strings.TrimSpace(snippet), snippetRunes),
		Content:     content,
		Link:        it.Link,
		Status:      domain.NewsPublished,
		CreatedAt:   pub,
		UpdatedAt:   pub,
		PublishedAt: &pub,
	}
	if city != "" {
		c := city
		item.City = &c
	}
	if it.Image != nil {
		item.Image = it.Image.URL
	}
	if len(it.Authors) > 0 && it.Authors[0] != nil {
		item.AuthorName = it.Authors[0].Name
	} else if feed != nil {
		item.AuthorName = feed.Title
	}
	if len(it.Categories) > 0 {
		item.Category = it.Categories[0]
	}

	return item
}

func published(n domain.NewsItem) time.Time {
	if n.PublishedAt != nil {
		return *n.PublishedAt
	}

	return n.CreatedAt
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n]) + "…"
}
