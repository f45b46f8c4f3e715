package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/G1ebS/rosatom-nko-sub000/internal/domain"
	"github.com/G1ebS/rosatom-nko-sub000/internal/listing"
	"github.com/G1ebS/rosatom-nko-sub000/internal/newsfeed"
	"github.com/G1ebS/rosatom-nko-sub000/internal/portalapi"
	"github.com/G1ebS/rosatom-nko-sub000/internal/viewmodel"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrSuperseded   = listing.ErrSuperseded
)

// maxUpstreamPages bounds how many pages of one collection are followed.
const maxUpstreamPages = 20

const (
	ViewOrganizations = "ngos"
	ViewEvents        = "events"
	ViewCalendar      = "calendar"
	ViewMaterials     = "materials"
	ViewNews          = "news"
	ViewPartnerNews   = "partner-news"
)

// View is one page of a list view with the facets it was cut with and the
// categories for the filter dropdown.
type View[C any] struct {
	listing.PageView[C]
	Facets     listing.Facets    `json:"facets"`
	Categories []domain.Category `json:"categories"`
}

type CalendarView struct {
	viewmodel.Calendar
	Facets     listing.Facets    `json:"facets"`
	Categories []domain.Category `json:"categories"`
}

type CatalogService struct {
	client  *portalapi.Client
	builder *viewmodel.Builder
	feed    *newsfeed.Fetcher
	toasts  ToastPublisher

	organizations *listing.Registry[domain.Organization]
	events        *listing.Registry[domain.Event]
	calendar      *listing.Registry[domain.Event]
	materials     *listing.Registry[domain.Material]
	news          *listing.Registry[domain.NewsItem]
	partnerNews   *listing.Registry[domain.NewsItem]
}

func NewCatalogService(client *portalapi.Client, builder *viewmodel.Builder, feed *newsfeed.Fetcher, toasts ToastPublisher, viewIdle time.Duration) *CatalogService {
	return &CatalogService{
		client:        client,
		builder:       builder,
		feed:          feed,
		toasts:        toasts,
		organizations: listing.NewRegistry[domain.Organization](viewIdle),
		events:        listing.NewRegistry[domain.Event](viewIdle),
		calendar:      listing.NewRegistry[domain.Event](viewIdle),
		materials:     listing.NewRegistry[domain.Material](viewIdle),
		news:          listing.NewRegistry[domain.NewsItem](viewIdle),
		partnerNews:   listing.NewRegistry[domain.NewsItem](viewIdle),
	}
}

// Forget drops every list view state held for a session.
func (s *CatalogService) Forget(sessionID string) {
	s.organizations.Drop(sessionID)
	s.events.Drop(sessionID)
	s.calendar.Drop(sessionID)
	s.materials.Drop(sessionID)
	s.news.Drop(sessionID)
	s.partnerNews.Drop(sessionID)
}

func clientFor(c *portalapi.Client, p domain.Principal) *portalapi.Client {
	if session, ok := p.Session(); ok {
		return c.WithToken(session.AccessToken)
	}

	return c
}

// collect follows the pages of a list endpoint until the reported count is
// reached. A bare-array answer is a single page.
func collect[T any](ctx context.Context, list func(context.Context, portalapi.ListParams) (portalapi.Page[T], error)) ([]T, error) {
	all := []T{}
	for page := 1; ; page++ {
		params := portalapi.ListParams{}
		if page > 1 {
			params.Page = page
		}

		p, err := list(ctx, params)
		if err != nil {
			return nil, err
		}
		all = append(all, p.Results...)

		if p.Next == "" || len(p.Results) == 0 || len(all) >= p.Count {
			return all, nil
		}
		if page == maxUpstreamPages {
			zap.L().Warn("upstream collection truncated",
				zap.Int("pages", page),
				zap.Int("collected", len(all)),
				zap.Int("count", p.Count),
			)
			return all, nil
		}
	}
}

type loader[T any] struct {
	registry *listing.Registry[T]
	view     string
	fetch    func(ctx context.Context) ([]T, error)
	fields   func(T) listing.Fields
}

type loaded[T any] struct {
	// items is the whole filtered collection, page the slice of it shown.
	items      []T
	page       listing.PageView[T]
	facets     listing.Facets
	categories []domain.Category
}

// load runs one query of a list view: the facets and page are applied to the
// principal's controller, categories and items are fetched concurrently, and
// the filtered result is committed and paginated unless a newer query was
// issued meanwhile. Anonymous principals carry no state between requests, so
// their requested page always counts.
func load[T any](ctx context.Context, s *CatalogService, p domain.Principal, l loader[T], f listing.Facets, page int) (loaded[T], error) {
	var ctrl *listing.Controller[T]
	if key, ok := p.ViewKey(); ok {
		ctrl = l.registry.Get(key, l.view)
		ctrl.Apply(f, page)
	} else {
		ctrl = listing.NewController[T]()
		ctrl.SetFacets(f)
		ctrl.SetPage(page)
	}
	seq := ctrl.Begin()
	facets := ctrl.Facets()

	var (
		items      []T
		categories []domain.Category
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cats, err := clientFor(s.client, p).Categories().List(gctx)
		if err != nil {
			zap.L().Warn("categories unavailable", zap.String("view", l.view), zap.Error(err))
			cats = []domain.Category{}
		}
		categories = cats
		return nil
	})
	g.Go(func() error {
		var err error
		items, err = l.fetch(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return loaded[T]{}, reportFailure(s.toasts, p, fmt.Errorf("load %s -> %w", l.view, err))
	}

	filtered := listing.Filter(items, facets, l.fields)
	pv, err := ctrl.CommitView(seq, filtered, listing.DirectoryPageSize)
	if err != nil {
		return loaded[T]{}, err
	}

	return loaded[T]{items: filtered, page: pv, facets: facets, categories: categories}, nil
}

func pageOf[T, C any](r loaded[T], cards func([]T) []C) View[C] {
	pv := r.page

	return View[C]{
		PageView: listing.PageView[C]{
			Items:      cards(pv.Items),
			Page:       pv.Page,
			PageSize:   pv.PageSize,
			TotalPages: pv.TotalPages,
			Total:      pv.Total,
		},
		Facets:     r.facets,
		Categories: r.categories,
	}
}

func (s *CatalogService) Categories(ctx context.Context, p domain.Principal) ([]domain.Category, error) {
	cats, err := clientFor(s.client, p).Categories().List(ctx)
	if err != nil {
		return nil, reportFailure(s.toasts, p, fmt.Errorf("s.client.Categories().List -> %w", err))
	}

	return cats, nil
}

func (s *CatalogService) Organizations(ctx context.Context, p domain.Principal, f listing.Facets, page int) (View[viewmodel.OrganizationCard], error) {
	c := clientFor(s.client, p)

	r, err := load(ctx, s, p, loader[domain.Organization]{
		registry: s.organizations,
		view:     ViewOrganizations,
		fetch: func(ctx context.Context) ([]domain.Organization, error) {
			return collect(ctx, c.Organizations().List)
		},
		fields: listing.OrganizationFields,
	}, f, page)
	if err != nil {
		return View[viewmodel.OrganizationCard]{}, err
	}

	m := p.Memberships()

	return pageOf(r, func(items []domain.Organization) []viewmodel.OrganizationCard {
		return s.builder.Organizations(items, m)
	}), nil
}

func (s *CatalogService) Events(ctx context.Context, p domain.Principal, f listing.Facets, page int) (View[viewmodel.EventCard], error) {
	r, err := load(ctx, s, p, s.eventLoader(p, s.events, ViewEvents), f, page)
	if err != nil {
		return View[viewmodel.EventCard]{}, err
	}

	m := p.Memberships()

	return pageOf(r, func(items []domain.Event) []viewmodel.EventCard {
		return s.builder.Events(items, m)
	}), nil
}

// Calendar lays out every event matching the facets, ignoring the date facet,
// plus the events of the selected day.
func (s *CatalogService) Calendar(ctx context.Context, p domain.Principal, f listing.Facets) (CalendarView, error) {
	day := f.Normalize().Date
	if day != "" {
		if _, err := time.Parse(time.DateOnly, day); err != nil {
			return CalendarView{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
		}
	}
	f.Date = ""

	r, err := load(ctx, s, p, s.eventLoader(p, s.calendar, ViewCalendar), f, 0)
	if err != nil {
		return CalendarView{}, err
	}

	return CalendarView{
		Calendar:   s.builder.Calendar(r.items, p.Memberships(), day),
		Facets:     r.facets,
		Categories: r.categories,
	}, nil
}

func (s *CatalogService) eventLoader(p domain.Principal, reg *listing.Registry[domain.Event], view string) loader[domain.Event] {
	c := clientFor(s.client, p)

	return loader[domain.Event]{
		registry: reg,
		view:     view,
		fetch: func(ctx context.Context) ([]domain.Event, error) {
			return collect(ctx, c.Events().List)
		},
		fields: listing.EventFields,
	}
}

func (s *CatalogService) Materials(ctx context.Context, p domain.Principal, f listing.Facets, page int) (View[viewmodel.MaterialCard], error) {
	c := clientFor(s.client, p)

	r, err := load(ctx, s, p, loader[domain.Material]{
		registry: s.materials,
		view:     ViewMaterials,
		fetch: func(ctx context.Context) ([]domain.Material, error) {
			return collect(ctx, c.Materials().List)
		},
		fields: listing.MaterialFields,
	}, f, page)
	if err != nil {
		return View[viewmodel.MaterialCard]{}, err
	}

	m := p.Memberships()

	return pageOf(r, func(items []domain.Material) []viewmodel.MaterialCard {
		return s.builder.Materials(items, m)
	}), nil
}

func (s *CatalogService) News(ctx context.Context, p domain.Principal, f listing.Facets, page int) (View[viewmodel.NewsCard], error) {
	c := clientFor(s.client, p)

	r, err := load(ctx, s, p, loader[domain.NewsItem]{
		registry: s.news,
		view:     ViewNews,
		fetch: func(ctx context.Context) ([]domain.NewsItem, error) {
			return collect(ctx, c.News().List)
		},
		fields: listing.NewsFields,
	}, f, page)
	if err != nil {
		return View[viewmodel.NewsCard]{}, err
	}

	return pageOf(r, s.builder.NewsList), nil
}

// PartnerNews lists the entries of the configured partner feeds through the
// same filter and pagination as the portal's own news.
func (s *CatalogService) PartnerNews(ctx context.Context, p domain.Principal, f listing.Facets, page int) (View[viewmodel.NewsCard], error) {
	r, err := load(ctx, s, p, loader[domain.NewsItem]{
		registry: s.partnerNews,
		view:     ViewPartnerNews,
		fetch:    s.feed.Items,
		fields:   listing.NewsFields,
	}, f, page)
	if err != nil {
		return View[viewmodel.NewsCard]{}, err
	}

	return pageOf(r, s.builder.NewsList), nil
}

func notFound(err error) error {
	if portalapi.IsNotFound(err) {
		return ErrNotFound
	}

	return err
}

func (s *CatalogService) Organization(ctx context.Context, p domain.Principal, id int) (viewmodel.OrganizationCard, error) {
	o, err := clientFor(s.client, p).Organizations().Get(ctx, id)
	if err != nil {
		return viewmodel.OrganizationCard{}, reportFailure(s.toasts, p, fmt.Errorf("s.client.Organizations().Get -> %w", notFound(err)))
	}

	return s.builder.Organization(o, p.Memberships()), nil
}

func (s *CatalogService) Event(ctx context.Context, p domain.Principal, id int) (viewmodel.EventCard, error) {
	e, err := clientFor(s.client, p).Events().Get(ctx, id)
	if err != nil {
		return viewmodel.EventCard{}, reportFailure(s.toasts, p, fmt.Errorf("s.client.Events().Get -> %w", notFound(err)))
	}

	return s.builder.Event(e, p.Memberships()), nil
}

// Material reads one material; upstream counts the read as a view.
func (s *CatalogService) Material(ctx context.Context, p domain.Principal, id int) (viewmodel.MaterialCard, error) {
	m, err := clientFor(s.client, p).Materials().Get(ctx, id)
	if err != nil {
		return viewmodel.MaterialCard{}, reportFailure(s.toasts, p, fmt.Errorf("s.client.Materials().Get -> %w", notFound(err)))
	}

	return s.builder.Material(m, p.Memberships()), nil
}

func (s *CatalogService) NewsItem(ctx context.Context, p domain.Principal, id int) (viewmodel.NewsCard, error) {
	n, err := clientFor(s.client, p).News().Get(ctx, id)
	if err != nil {
		return viewmodel.NewsCard{}, reportFailure(s.toasts, p, fmt.Errorf("s.client.News().Get -> %w", notFound(err)))
	}

	return s.builder.News(n), nil
}

// categorySlug swaps a category display name for its slug when the
// category list knows it.
func (s *CatalogService) categorySlug(ctx context.Context, c *portalapi.Client, label string) string {
	if label == "" {
		return label
	}

	cats, err := c.Categories().List(ctx)
	if err != nil {
		zap.L().Warn("categories unavailable, sending label as is", zap.String("category", label), zap.Error(err))
		return label
	}
	if slug, ok := domain.SlugFor(cats, label); ok {
		return slug
	}

	return label
}

func (s *CatalogService) CreateNews(ctx context.Context, p domain.Principal, d domain.NewsDraft) (viewmodel.NewsCard, error) {
	session, ok := p.Session()
	if !ok {
		return viewmodel.NewsCard{}, ErrUnauthenticated
	}
	c := s.client.WithToken(session.AccessToken)
	d.Category = s.categorySlug(ctx, c, d.Category)

	n, err := c.News().Create(ctx, d)
	if err != nil {
		return viewmodel.NewsCard{}, reportFailure(s.toasts, p, fmt.Errorf("s.client.News().Create -> %w", err))
	}

	return s.builder.News(n), nil
}

func (s *CatalogService) DeleteNews(ctx context.Context, p domain.Principal, id int) error {
	session, ok := p.Session()
	if !ok {
		return ErrUnauthenticated
	}

	if err := s.client.WithToken(session.AccessToken).News().Delete(ctx, id); err != nil {
		return reportFailure(s.toasts, p, fmt.Errorf("s.client.News().Delete -> %w", notFound(err)))
	}

	return nil
}

func (s *CatalogService) CreateEvent(ctx context.Context, p domain.Principal, d domain.EventDraft) (viewmodel.EventCard, error) {
	session, ok := p.Session()
	if !ok {
		return viewmodel.EventCard{}, ErrUnauthenticated
	}
	c := s.client.WithToken(session.AccessToken)
	d.Category = s.categorySlug(ctx, c, d.Category)

	e, err := c.Events().Create(ctx, d)
	if err != nil {
		return viewmodel.EventCard{}, reportFailure(s.toasts, p, fmt.Errorf("s.client.Events().Create -> %w", err))
	}

	return s.builder.Event(e, p.Memberships()), nil
}
