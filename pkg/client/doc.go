// Package client talks to a Mastodon-compatible service over its HTTP + JSON
// API.
//
// # Registering an app
//
// Registration walks the OAuth flow once and yields a credential bundle:
//
//	reg, err := client.NewRegistration("https://mastodon.social")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = reg.Register(ctx, apps.AppBuilder{
//	    ClientName:   "fedikit",
//	    RedirectURIs: apps.OOBRedirect,
//	    Scopes:       apps.ReadWrite,
//	})
//	authURL, _ := reg.AuthorizeURL()
//	fmt.Println("Open:", authURL)
//	c, err := reg.Exchange(ctx, codeFromUser)
//
// Persist c.Data() with encoding/json and rebuild the client later with New:
//
//	c, err := client.New(data)
//
// # Calling endpoints
//
// Every endpoint is a method on Client and blocks until the response body
// has been read and decoded:
//
//	timeline, err := c.HomeTimeline(ctx)
//	status, err := c.NewStatus(ctx, client.StatusBuilder{
//	    Status:         "hello",
//	    Visibility:     entities.VisibilityUnlisted,
//	    IdempotencyKey: client.NewIdempotencyKey(),
//	})
//
// # Errors
//
// All errors are *Error values. Use KindOf or errors.As to inspect the kind;
// KindAPI errors carry the service's error envelope:
//
//	var e *client.Error
//	if errors.As(err, &e) && e.Kind == client.KindAPI {
//	    log.Printf("service said: %s", e.API.Message)
//	}
//
// The precondition kinds have sentinels for errors.Is:
// ErrClientIDRequired, ErrClientSecretRequired and ErrAccessTokenRequired.
//
// The client never retries and never logs. Install a logging or throttling
// http.RoundTripper with WithHTTPClient if you need either.
package client
