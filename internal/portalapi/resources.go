package portalapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/G1ebS/rosatom-nko-sub000/internal/domain"
)

// ListParams are the query parameters shared by list endpoints. Empty
// values are not sent.
type ListParams struct {
	City     string
	Category string
	Search   string
	Ordering string
	Page     int
	Extra    url.Values
}

func (p ListParams) Values() url.Values {
	v := url.Values{}
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set("city", p.City)
	set("category", p.Category)
	set("search", p.Search)
	set("ordering", p.Ordering)
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	for k, vs := range p.Extra {
		for _, val := range vs {
			if val != "" {
				v.Add(k, val)
			}
		}
	}

	return v
}

func getPage[T any](ctx context.Context, c *Client, endpoint string, q url.Values) (Page[T], error) {
	raw, err := c.Get(ctx, endpoint, q)
	if err != nil {
		return Page[T]{}, err
	}

	return DecodePage[T](raw)
}

func getOne[T any](ctx context.Context, c *Client, endpoint string) (T, error) {
	raw, err := c.Get(ctx, endpoint, nil)
	if err != nil {
		var zero T
		return zero, err
	}

	return decode[T](raw)
}

func send[T any](ctx context.Context, c *Client, method, endpoint string, body any) (T, error) {
	raw, err := c.Request(ctx, endpoint, RequestOptions{Method: method, Body: body})
	if err != nil {
		var zero T
		return zero, err
	}

	return decode[T](raw)
}

type OrganizationsAPI struct{ c *Client }

func (c *Client) Organizations() OrganizationsAPI { return OrganizationsAPI{c} }

func (a OrganizationsAPI) List(ctx context.Context, p ListParams) (Page[domain.Organization], error) {
	return getPage[domain.Organization](ctx, a.c, "/ngos/", p.Values())
}

func (a OrganizationsAPI) Get(ctx context.Context, id int) (domain.Organization, error) {
	return getOne[domain.Organization](ctx, a.c, fmt.Sprintf("/ngos/%d/", id))
}

func (a OrganizationsAPI) Create(ctx context.Context, d domain.OrganizationDraft) (domain.Organization, error) {
	return send[domain.Organization](ctx, a.c, "POST", "/ngos/", d)
}

func (a OrganizationsAPI) Update(ctx context.Context, id int, d domain.OrganizationDraft) (domain.Organization, error) {
	return send[domain.Organization](ctx, a.c, "PUT", fmt.Sprintf("/ngos/%d/", id), d)
}

func (a OrganizationsAPI) AddFavorite(ctx context.Context, id int) error {
	_, err := a.c.Post(ctx, fmt.Sprintf("/ngos/%d/favorite/", id), nil)
	return err
}

func (a OrganizationsAPI) RemoveFavorite(ctx context.Context, id int) error {
	_, err := a.c.Delete(ctx, fmt.Sprintf("/ngos/%d/favorite/", id))
	return err
}

func (a OrganizationsAPI) Favorites(ctx context.Context) ([]domain.Organization, error) {
	page, err := getPage[domain.Organization](ctx, a.c, "/ngos/favorites", nil)
	if err != nil {
		return nil, err
	}

	return page.Results, nil
}

type EventsAPI struct{ c *Client }

func (c *Client) Events() EventsAPI { return EventsAPI{c} }

func (a EventsAPI) List(ctx context.Context, p ListParams) (Page[domain.Event], error) {
	return getPage[domain.Event](ctx, a.c, "/events/", p.Values())
}

func (a EventsAPI) Get(ctx context.Context, id int) (domain.Event, error) {
	return getOne[domain.Event](ctx, a.c, fmt.Sprintf("/events/%d/", id))
}

func (a EventsAPI) Create(ctx context.Context, d domain.EventDraft) (domain.Event, error) {
	return send[domain.Event](ctx, a.c, "POST", "/events/", d)
}

// Register creates the user-event registration. details may be nil.
func (a EventsAPI) Register(ctx context.Context, id int, details *domain.RegistrationDetails) error {
	var body any
	if details != nil {
		body = details
	}
	_, err := a.c.Post(ctx, fmt.Sprintf("/events/%d/register/", id), body)
	return err
}

func (a EventsAPI) Unregister(ctx context.Context, id int) error {
	_, err := a.c.Delete(ctx, fmt.Sprintf("/events/%d/register/", id))
	return err
}

type MaterialsAPI struct{ c *Client }

func (c *Client) Materials() MaterialsAPI { return MaterialsAPI{c} }

func (a MaterialsAPI) List(ctx context.Context, p ListParams) (Page[domain.Material], error) {
	return getPage[domain.Material](ctx, a.c, "/materials/", p.Values())
}

// Get is not a pure read: the backend bumps the material's view counter.
func (a MaterialsAPI) Get(ctx context.Context, id int) (domain.Material, error) {
	return getOne[domain.Material](ctx, a.c, fmt.Sprintf("/materials/%d/", id))
}

type LibraryAPI struct{ c *Client }

func (c *Client) Library() LibraryAPI { return LibraryAPI{c} }

func (a LibraryAPI) List(ctx context.Context) ([]domain.LibraryItem, error) {
	page, err := getPage[domain.LibraryItem](ctx, a.c, "/library/", nil)
	if err != nil {
		return nil, err
	}

	return page.Results, nil
}

func (a LibraryAPI) Add(ctx context.Context, materialID int) error {
	_, err := a.c.Post(ctx, "/library/", map[string]int{"material": materialID})
	return err
}

func (a LibraryAPI) Remove(ctx context.Context, materialID int) error {
	_, err := a.c.Delete(ctx, fmt.Sprintf("/library/%d/", materialID))
	return err
}

type NewsAPI struct{ c *Client }

func (c *Client) News() NewsAPI { return NewsAPI{c} }

func (a NewsAPI) List(ctx context.Context, p ListParams) (Page[domain.NewsItem], error) {
	return getPage[domain.NewsItem](ctx, a.c, "/news/", p.Values())
}

func (a NewsAPI) Get(ctx context.Context, id int) (domain.NewsItem, error) {
	return getOne[domain.NewsItem](ctx, a.c, fmt.Sprintf("/news/%d/", id))
}

// Create posts JSON, or multipart when the draft carries an image.
func (a NewsAPI) Create(ctx context.Context, d domain.NewsDraft) (domain.NewsItem, error) {
	if len(d.Image) == 0 {
		return send[domain.NewsItem](ctx, a.c, "POST", "/news/", d)
	}

	form := &Multipart{
		Fields: map[string]string{
			"title":   d.Title,
			"content": d.Content,
		},
		Files: []FilePart{{Field: "image", Filename: d.ImageName, Content: d.Image}},
	}
	if d.Snippet != "" {
		form.Fields["snippet"] = d.Snippet
	}
	if d.City != "" {
		form.Fields["city"] = d.City
	}
	if d.Category != "" {
		form.Fields["category"] = d.Category
	}

	return send[domain.NewsItem](ctx, a.c, "POST", "/news/", form)
}

func (a NewsAPI) Update(ctx context.Context, id int, d domain.NewsDraft) (domain.NewsItem, error) {
	return send[domain.NewsItem](ctx, a.c, "PUT", fmt.Sprintf("/news/%d/", id), d)
}

func (a NewsAPI) Delete(ctx context.Context, id int) error {
	_, err := a.c.Delete(ctx, fmt.Sprintf("/news/%d/", id))
	return err
}

type CategoriesAPI struct{ c *Client }

func (c *Client) Categories() CategoriesAPI { return CategoriesAPI{c} }

func (a CategoriesAPI) List(ctx context.Context) ([]domain.Category, error) {
	page, err := getPage[domain.Category](ctx, a.c, "/categories/", nil)
	if err != nil {
		return nil, err
	}

	return page.Results, nil
}

type AuthAPI struct{ c *Client }

func (c *Client) Auth() AuthAPI { return AuthAPI{c} }

// Register may or may not hand back tokens depending on the backend version.
func (a AuthAPI) Register(ctx context.Context, r domain.Registration) (domain.TokenPair, error) {
	if r.Username == "" {
		r.Username = r.Email
	}
	if r.PasswordConfirm == "" {
		r.PasswordConfirm = r.Password
	}

	return send[domain.TokenPair](ctx, a.c, "POST", "/auth/register", r)
}

// Login authenticates by username; the portal uses e-mails as usernames.
func (a AuthAPI) Login(ctx context.Context, username, password string) (domain.TokenPair, error) {
	pair, err := send[domain.TokenPair](ctx, a.c, "POST", "/auth/login", map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return domain.TokenPair{}, err
	}
	if pair.Access == "" {
		return domain.TokenPair{}, fmt.Errorf("%w: login answered without an access token", ErrUnexpectedEnvelope)
	}

	return pair, nil
}

func (a AuthAPI) Me(ctx context.Context) (domain.User, error) {
	return getOne[domain.User](ctx, a.c, "/auth/me")
}

func (a AuthAPI) UpdateMe(ctx context.Context, u domain.ProfileUpdate) (domain.User, error) {
	return send[domain.User](ctx, a.c, "PATCH", "/auth/me", u)
}

func (a AuthAPI) Refresh(ctx context.Context, refresh string) (domain.TokenPair, error) {
	pair, err := send[domain.TokenPair](ctx, a.c, "POST", "/auth/refresh", map[string]string{"refresh": refresh})
	if err != nil {
		return domain.TokenPair{}, err
	}
	if pair.Refresh == "" {
		pair.Refresh = refresh
	}

	return pair, nil
}
