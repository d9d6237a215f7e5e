package libmv

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/pkg/errors"
)

// DefaultRealm is the realm used when none is provided.
const DefaultRealm = "medvault"

type (
	// A Client defines all interactions that can be performed on a MedVault record store.
	Client interface {
		// Login authenticates the given credentials and returns the user and its access token.
		Login(ctx context.Context, username, password string) (*Login, error)
		// Register creates a new account. It does not authenticate the client.
		Register(ctx context.Context, registration Registration) error
		// Logout revokes the bearer token.
		Logout(ctx context.Context) error
		// CreateRecord sends the given multipart body as a new record.
		CreateRecord(ctx context.Context, body io.Reader, contentType string) error
		// Records returns the raw listing payload of the given user's records.
		Records(ctx context.Context, userID string) ([]byte, error)
		// BearerToken returns the authentication used for requests sent to the record store.
		BearerToken() string
		// WithBearerToken returns a copy of the client authenticated with the given token.
		WithBearerToken(token string) Client
	}

	// A Login is the payload returned by a successful authentication.
	Login struct {
		User        json.RawMessage `json:"user"`
		AccessToken string          `json:"access_token"`
	}

	// A Registration holds the fields sent to create an account.
	Registration struct {
		FullName string
		Email    string
		Password string
	}

	client struct {
		http     *http.Client
		endpoint string
		realm    string
		bearer   string
	}
)

// NewDefaultClient returns a new Client with default HTTP client and realm.
func NewDefaultClient(endpoint string) (Client, error) {
	return NewClient(http.DefaultClient, endpoint, DefaultRealm)
}

// NewClient returns a new Client.
func NewClient(c *http.Client, endpoint, realm string) (Client, error) {
	if realm == "" {
		realm = DefaultRealm
	}
	_, err := url.Parse(endpoint)
	return &client{http: c, endpoint: endpoint, realm: realm}, errors.Wrap(err, "could not parse endpoint")
}

func (c *client) Login(ctx context.Context, username, password string) (*Login, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	res, err := c.postForm(ctx, c.path("auth", "login"), form)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	//
	// Process response
	var login Login
	dec := json.NewDecoder(res.Body)
	if err = dec.Decode(&login); err != nil {
		return nil, &ResponseError{StatusCode: res.StatusCode, Err: errors.Wrap(err, "could not parse response")}
	}
	return &login, nil
}

func (c *client) Register(ctx context.Context, registration Registration) error {
	form := url.Values{}
	form.Set("full_name", registration.FullName)
	form.Set("email", registration.Email)
	form.Set("password", registration.Password)

	res, err := c.postForm(ctx, c.path("auth", "register"), form)
	if err != nil {
		return err
	}
	return res.Body.Close()
}

func (c *client) Logout(ctx context.Context) error {
	if c.bearer == "" {
		return errors.New("no bearer token defined")
	}

	//
	// Build request
	req, err := c.request(ctx, http.MethodPost, c.path("auth", "logout"), nil)
	if err != nil {
		return err
	}
	req.Header.Add("Accept", "application/json")

	//
	// Perform request
	res, err := c.do(req)
	if err != nil {
		return err
	}
	return res.Body.Close()
}

func (c *client) CreateRecord(ctx context.Context, body io.Reader, contentType string) error {
	// The trailing slash is part of the route.
	u := c.path("documents", "med_records") + "/"

	//
	// Build request
	req, err := c.request(ctx, http.MethodPost, u, body)
	if err != nil {
		return err
	}
	req.Header.Add("Content-Type", contentType)
	req.Header.Add("Accept", "application/json")

	//
	// Perform request
	res, err := c.do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	_, err = io.Copy(io.Discard, res.Body)
	return errors.Wrap(err, "could not read response")
}

func (c *client) Records(ctx context.Context, userID string) ([]byte, error) {
	query := url.Values{}
	query.Set("user_id", userID)

	//
	// Build request
	req, err := c.request(ctx, http.MethodGet, c.path("documents", "med_records")+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Add("Accept", "application/json")

	//
	// Perform request
	res, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	//
	// Process response
	payload, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "could not read response")
	}
	return payload, nil
}

func (c *client) BearerToken() string {
	return c.bearer
}

func (c *client) WithBearerToken(token string) Client {
	cc := *c
	cc.bearer = token
	return &cc
}

//
// Helpers
//

func (c *client) path(namespace, action string) string {
	return "/" + path.Join(namespace, c.realm, action)
}

func (c *client) postForm(ctx context.Context, uri string, form url.Values) (*http.Response, error) {
	//
	// Build request
	req, err := c.request(ctx, http.MethodPost, uri, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Add("Accept", "application/json")

	//
	// Perform request
	return c.do(req)
}

func (c *client) request(ctx context.Context, method, uri string, body io.Reader) (*http.Request, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse endpoint")
	}
	ref, err := url.Parse(uri)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse path")
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + ref.Path
	u.RawQuery = ref.RawQuery

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, errors.Wrap(err, "could not build request")
	}
	req.Close = true
	if c.bearer != "" {
		req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", c.bearer))
	}
	return req, nil
}

func (c *client) do(req *http.Request) (*http.Response, error) {
	res, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "could not perform request")
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		defer res.Body.Close()
		return nil, parseError(res.Body, res.StatusCode)
	}
	return res, nil
}
