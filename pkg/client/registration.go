package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jmerrifield20/fedikit/pkg/apps"
	"github.com/jmerrifield20/fedikit/pkg/entities"
	"golang.org/x/oauth2"
)

// State is a Registration's position in the OAuth flow. Transitions only
// move forward.
type State int

const (
	StateFresh State = iota
	StateAppRegistered
	StateAuthorizeURLIssued
	StateAuthorized
)

func (s State) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StateAppRegistered:
		return "app_registered"
	case StateAuthorizeURLIssued:
		return "authorize_url_issued"
	case StateAuthorized:
		return "authorized"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Registration obtains a credential bundle for one instance:
//
//	reg, _ := client.NewRegistration("https://mastodon.social")
//	_ = reg.Register(ctx, apps.AppBuilder{
//	    ClientName:   "my-app",
//	    RedirectURIs: apps.OOBRedirect,
//	    Scopes:       apps.Read,
//	})
//	authURL, _ := reg.AuthorizeURL()
//	// the user opens authURL and pastes back the code
//	c, err := reg.Exchange(ctx, code)
//
// A Registration is not safe for concurrent use.
type Registration struct {
	kernel
	clientID     string
	clientSecret string
	redirect     string
	scopes       apps.Scope
	state        State
}

// NewRegistration starts a registration against base, which must be an
// absolute URL.
func NewRegistration(base string, opts ...Option) (*Registration, error) {
	k, err := newKernel(base, opts)
	if err != nil {
		return nil, err
	}
	return &Registration{kernel: *k, state: StateFresh}, nil
}

// Registered restores a Registration whose app was registered earlier, so a
// later process can issue the authorize URL or exchange a code.
func Registered(base, clientID, clientSecret, redirect string, scopes apps.Scope, opts ...Option) (*Registration, error) {
	if _, err := scopes.MarshalText(); err != nil {
		return nil, wrapErr(KindSerde, fmt.Errorf("restore registration: %w", err))
	}
	r, err := NewRegistration(base, opts...)
	if err != nil {
		return nil, err
	}
	r.clientID = clientID
	r.clientSecret = clientSecret
	r.redirect = redirect
	r.scopes = scopes
	if clientID != "" && clientSecret != "" {
		r.state = StateAppRegistered
	}
	return r, nil
}

// State returns the current position in the flow.
func (r *Registration) State() State {
	return r.state
}

// Data returns the registration's credential bundle. Token is empty until
// Exchange succeeds.
func (r *Registration) Data() Data {
	return Data{
		Base:         r.base,
		ClientID:     r.clientID,
		ClientSecret: r.clientSecret,
		Redirect:     r.redirect,
	}
}

type appRegistration struct {
	ClientID     string `json:"client_id" validate:"required"`
	ClientSecret string `json:"client_secret" validate:"required"`
	RedirectURI  string `json:"redirect_uri"`
}

// Register registers app with the instance. POST /api/v1/apps
func (r *Registration) Register(ctx context.Context, app apps.AppBuilder) error {
	form, err := app.Form()
	if err != nil {
		return wrapErr(KindSerde, fmt.Errorf("encode app registration: %w", err))
	}
	resp, err := roundTrip[appRegistration](ctx, &r.kernel, "", formCall(apiPath("apps"), form))
	if err != nil {
		return err
	}

	r.clientID = resp.ClientID
	r.clientSecret = resp.ClientSecret
	r.redirect = resp.RedirectURI
	if r.redirect == "" {
		r.redirect = app.RedirectURIs
	}
	r.scopes = app.Scopes
	r.state = StateAppRegistered
	return nil
}

// AuthorizeURL returns the page the user must visit to grant access:
//
//	<base>/oauth/authorize?client_id=…&redirect_uri=…&scope=…&response_type=code
func (r *Registration) AuthorizeURL() (string, error) {
	if r.clientID == "" {
		return "", ErrClientIDRequired
	}

	scope, err := r.scopes.MarshalText()
	if err != nil {
		return "", wrapErr(KindSerde, fmt.Errorf("build authorize URL: %w", err))
	}

	var q query
	q.add("client_id", r.clientID)
	q.add("redirect_uri", r.redirect)
	q.add("scope", string(scope))
	q.add("response_type", "code")

	authURL := r.base + "/oauth/authorize?" + q.encode()
	if _, err := url.Parse(authURL); err != nil {
		return "", wrapErr(KindURLParse, fmt.Errorf("build authorize URL: %w", err))
	}
	if r.state < StateAuthorizeURLIssued {
		r.state = StateAuthorizeURLIssued
	}
	return authURL, nil
}

// oauthConfig describes the instance's token endpoint. Credentials go in the
// form body, which is what the service expects.
func (r *Registration) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     r.clientID,
		ClientSecret: r.clientSecret,
		RedirectURL:  r.redirect,
		Endpoint: oauth2.Endpoint{
			AuthURL:   r.base + "/oauth/authorize",
			TokenURL:  r.base + "/oauth/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// ExchangeToken trades an authorization code for an access token.
// POST /oauth/token
func (r *Registration) ExchangeToken(ctx context.Context, code string) (entities.OAuthToken, error) {
	if r.clientID == "" {
		return entities.OAuthToken{}, ErrClientIDRequired
	}
	if r.clientSecret == "" {
		return entities.OAuthToken{}, ErrClientSecretRequired
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, r.httpClient)
	tok, err := r.oauthConfig().Exchange(ctx, code)
	if err != nil {
		return entities.OAuthToken{}, exchangeError(err)
	}

	out := entities.OAuthToken{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		out.Scope = scope
	}
	if created, ok := tok.Extra("created_at").(float64); ok {
		out.CreatedAt = time.Unix(int64(created), 0).UTC()
	}
	return out, nil
}

// Exchange trades an authorization code for an access token and returns a
// client carrying it.
func (r *Registration) Exchange(ctx context.Context, code string) (*Client, error) {
	tok, err := r.ExchangeToken(ctx, code)
	if err != nil {
		return nil, err
	}

	data := r.Data()
	data.Token = tok.AccessToken
	r.state = StateAuthorized
	return &Client{kernel: r.kernel, data: data}, nil
}

// exchangeError maps an oauth2 failure onto the package's error kinds.
func exchangeError(err error) error {
	var rErr *oauth2.RetrieveError
	if errors.As(err, &rErr) && rErr.ErrorCode != "" {
		apiErr := &APIError{Message: rErr.ErrorCode}
		if rErr.ErrorDescription != "" {
			desc := rErr.ErrorDescription
			apiErr.Description = &desc
		}
		return &Error{Kind: KindAPI, API: apiErr}
	}

	var uErr *url.Error
	if errors.As(err, &uErr) {
		return wrapErr(KindHTTP, fmt.Errorf("%s %s: %w", http.MethodPost, "/oauth/token", err))
	}
	return wrapErr(KindSerde, fmt.Errorf("decode token response: %w", err))
}
