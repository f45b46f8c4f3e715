package newsfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rssFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Зелёный город</title>
  <link>https://green.example.org</link>
  <item>
    <title>Весенний субботник</title>
    <link>https://green.example.org/news/1</link>
    <description>Собираемся у парка в субботу</description>
    <category>Экология</category>
    <pubDate>Sat, 17 May 2025 10:00:00 +0800</pubDate>
  </item>
  <item>
    <title>Итоги года</title>
    <link>https://green.example.org/news/0</link>
    <description>Рассказываем о сделанном</description>
    <pubDate>Tue, 31 Dec 2024 12:00:00 +0800</pubDate>
  </item>
</channel>
</rss>`

const atomFeed = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Фонд помощи</title>
  <updated>2025-03-01T09:00:00Z</updated>
  <entry>
    <title>Сбор вещей</title>
    <link href="https://help.example.org/a"/>
    <id>urn:1</id>
    <updated>2025-03-01T09:00:00Z</updated>
    <summary>Принимаем тёплую одежду</summary>
    <author><name>Мария</name></author>
  </entry>
</feed>`

func feedServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/rss":
			w.Header().Set("Content-Type", "application/rss+xml")
			_, _ = w.Write([]byte(rssFeed))
		case "/atom":
			w.Header().Set("Content-Type", "application/atom+xml")
			_, _ = w.Write([]byte(atomFeed))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestFetcher_Items(t *testing.T) {
	var hits atomic.Int32
	srv := feedServer(t, &hits)

	f := NewFetcher([]Source{
		{URL: srv.URL + "/rss", City: "Ангарск"},
		{URL: srv.URL + "/atom"},
		{URL: srv.URL + "/missing"},
	}, time.Minute)

	items, err := f.Items(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3, "the missing feed is skipped")

	assert.Equal(t, "Весенний субботник", items[0].Title)
	assert.Equal(t, "Ангарск", items[0].CityName())
	assert.Equal(t, "Экология", items[0].Category)
	assert.Equal(t, "Зелёный город", items[0].AuthorName)
	assert.Equal(t, "https://green.example.org/news/1", items[0].Link)

	assert.Equal(t, "Сбор вещей", items[1].Title)
	assert.Empty(t, items[1].CityName(), "no city means every city")
	assert.Equal(t, "Мария", items[1].AuthorName)
	assert.Equal(t, "Принимаем тёплую одежду", items[1].Snippet)

	assert.Equal(t, "Итоги года", items[2].Title)
}

func TestFetcher_CachesForTTL(t *testing.T) {
	var hits atomic.Int32
	srv := feedServer(t, &hits)

	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	f := NewFetcher([]Source{{URL: srv.URL + "/rss"}}, time.Minute)
	f.now = func() time.Time { return now }

	_, err := f.Items(context.Background())
	require.NoError(t, err)
	_, err = f.Items(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, hits.Load())

	now = now.Add(2 * time.Minute)
	_, err = f.Items(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, hits.Load())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "абв", truncate("абв", 3))
	assert.Equal(t, "аб…", truncate("абв", 2))
}
