// Package client talks to the BloomAccess API and keeps the signed in
// credentials in a durable store between runs.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
	StatusPending = "PENDING"

	defaultTimeout = 15 * time.Second
)

var (
	ErrNotLoggedIn   = errors.New("not logged in")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrUnexpectedRsp = errors.New("unexpected response")
)

// APIError is a FAILED result returned by the server.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

type User struct {
	ID          uuid.UUID `json:"_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	DateOfBirth time.Time `json:"dateOfBirth"`
	Verified    bool      `json:"verified"`
}

// Credentials is what gets persisted after a successful signin.
type Credentials struct {
	User
	Token string `json:"token,omitempty"`
}

type Pending struct {
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
}

type SignupRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DateOfBirth string `json:"dateOfBirth"`
}

type result struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Token   string          `json:"token"`
}

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	store      Store
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func New(baseURL string, store Store, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse base url")
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("base url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: defaultTimeout},
		store:      store,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Signup registers an account. The server answers PENDING until the mailed
// link is opened.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*Pending, error) {
	res, err := c.post(ctx, "/user/signup", req)
	if err != nil {
		return nil, err
	}

	return decodePending(res)
}

// Signin checks the credentials and persists them under CredentialsKey.
func (c *Client) Signin(ctx context.Context, email, password string) (*Credentials, error) {
	res, err := c.post(ctx, "/user/signin", map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}
	if res.Status != StatusSuccess {
		return nil, errors.Wrapf(ErrUnexpectedRsp, "signin status %s", res.Status)
	}

	var users []User
	if err := json.Unmarshal(res.Data, &users); err != nil {
		return nil, errors.Wrap(err, "decode signin data")
	}
	if len(users) == 0 {
		return nil, errors.Wrap(ErrUnexpectedRsp, "signin returned no user")
	}

	creds := &Credentials{User: users[0], Token: res.Token}
	if err := c.Persist(ctx, creds); err != nil {
		return nil, err
	}

	return creds, nil
}

func (c *Client) ResendVerificationLink(ctx context.Context, userID uuid.UUID, email string) (*Pending, error) {
	res, err := c.post(ctx, "/user/resendVerificationLink", map[string]string{
		"userId": userID.String(),
		"email":  email,
	})
	if err != nil {
		return nil, err
	}

	return decodePending(res)
}

// Me fetches the account behind the stored token. A rejected token logs the
// client out.
func (c *Client) Me(ctx context.Context) (*User, error) {
	creds, err := c.Restore(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/user/me"), nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Authorization", "Bearer "+creds.Token)

	res, err := c.do(req)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			if logoutErr := c.Logout(ctx); logoutErr != nil {
				return nil, logoutErr
			}
		}
		return nil, err
	}

	var users []User
	if err := json.Unmarshal(res.Data, &users); err != nil || len(users) == 0 {
		return nil, errors.Wrap(ErrUnexpectedRsp, "decode me data")
	}

	return &users[0], nil
}

// Persist stores creds as the logged-in identity. Identities obtained
// elsewhere, such as a third party sign in, go through here too.
func (c *Client) Persist(ctx context.Context, creds *Credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return errors.Wrap(err, "encode credentials")
	}

	return errors.Wrap(c.store.Set(ctx, CredentialsKey, data), "persist credentials")
}

// Restore returns the persisted credentials or ErrNotLoggedIn.
func (c *Client) Restore(ctx context.Context) (*Credentials, error) {
	data, err := c.store.Get(ctx, CredentialsKey)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, ErrNotLoggedIn
		}
		return nil, errors.Wrap(err, "load credentials")
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, errors.Wrap(err, "decode credentials")
	}

	return &creds, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return errors.Wrap(c.store.Delete(ctx, CredentialsKey), "remove credentials")
}

func (c *Client) endpoint(path string) string {
	return c.baseURL.JoinPath(path).String()
}

func (c *Client) post(ctx context.Context, path string, body any) (*result, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

func (c *Client) do(req *http.Request) (*result, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", req.Method, req.URL.Path)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}

	var res result
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, errors.Wrap(ErrUnexpectedRsp, fmt.Sprintf("http %d: %s", resp.StatusCode, bytes.TrimSpace(body)))
	}

	if res.Status == StatusFailed {
		return nil, &APIError{Message: res.Message}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(ErrUnexpectedRsp, "http %d", resp.StatusCode)
	}

	return &res, nil
}

func decodePending(res *result) (*Pending, error) {
	if res.Status != StatusPending {
		return nil, errors.Wrapf(ErrUnexpectedRsp, "status %s", res.Status)
	}

	var p Pending
	if err := json.Unmarshal(res.Data, &p); err != nil {
		return nil, errors.Wrap(err, "decode pending data")
	}

	return &p, nil
}
