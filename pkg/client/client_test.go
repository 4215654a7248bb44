package client_test

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jmerrifield20/fedikit/internal/testserver"
	"github.com/jmerrifield20/fedikit/pkg/client"
	"github.com/jmerrifield20/fedikit/pkg/entities"
)

// ── Fixtures ─────────────────────────────────────────────────────────────

const accountJSON = `{
	"id": "1",
	"username": "alice",
	"acct": "alice",
	"display_name": "Alice",
	"note": "<p>hi</p>",
	"url": "https://example.social/@alice",
	"avatar": "https://example.social/a.png",
	"header": "https://example.social/h.png",
	"locked": false,
	"created_at": "2017-04-08T12:00:00.000Z",
	"followers_count": 3,
	"following_count": 4,
	"statuses_count": 5
}`

const statusJSON = `{
	"id": "42",
	"uri": "https://example.social/users/alice/statuses/42",
	"url": "https://example.social/@alice/42",
	"account": ` + accountJSON + `,
	"in_reply_to_id": null,
	"reblog": null,
	"content": "<p>hello</p>",
	"created_at": "2017-04-08T12:30:00.000Z",
	"reblogs_count": 0,
	"favourites_count": 1,
	"sensitive": false,
	"spoiler_text": "",
	"visibility": "public",
	"media_attachments": [],
	"mentions": [],
	"tags": []
}`

func newClient(t *testing.T, srv *testserver.Server) *client.Client {
	t.Helper()
	c, err := client.New(client.Data{
		Base:         srv.URL,
		ClientID:     "ci",
		ClientSecret: "cs",
		Redirect:     "urn:ietf:wg:oauth:2.0:oob",
		Token:        "tok",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

// ── Tests ────────────────────────────────────────────────────────────────

func TestNew_rejectsRelativeBase(t *testing.T) {
	for _, base := range []string{"example.social", "/api", "://bad", ""} {
		_, err := client.New(client.Data{Base: base, Token: "tok"})
		if client.KindOf(err) != client.KindURLParse {
			t.Errorf("New(%q): expected url parse error, got %v", base, err)
		}
	}
}

func TestNew_rejectsQueryAndFragment(t *testing.T) {
	for _, base := range []string{
		"https://example.social/?x=1",
		"https://example.social?",
		"https://example.social/#top",
	} {
		_, err := client.New(client.Data{Base: base, Token: "tok"})
		if client.KindOf(err) != client.KindURLParse {
			t.Errorf("New(%q): expected url parse error, got %v", base, err)
		}
	}
}

func TestNew_trimsTrailingSlash(t *testing.T) {
	c := client.MustNew(client.Data{Base: "https://example.social/", Token: "tok"})
	if got := c.Data().Base; got != "https://example.social" {
		t.Errorf("Base = %q", got)
	}
}

func TestData_jsonRoundTrip(t *testing.T) {
	in := client.Data{
		Base:         "https://example.social",
		ClientID:     "ci",
		ClientSecret: "cs",
		Redirect:     "urn:ietf:wg:oauth:2.0:oob",
		Token:        "tok",
	}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}

	var fields map[string]string
	if err := json.Unmarshal(b, &fields); err != nil {
		t.Fatal(err)
	}
	if len(fields) != 5 {
		t.Errorf("expected exactly 5 fields, got %v", fields)
	}

	var out client.Data
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatal(err)
	}
	if out != in {
		t.Errorf("round trip mismatch: %+v != %+v", out, in)
	}
	again, _ := json.Marshal(out)
	if string(again) != string(b) {
		t.Errorf("re-serialized bytes differ:\n%s\n%s", again, b)
	}
}

func TestBearerHeader_exactlyOnce(t *testing.T) {
	srv := testserver.New(t)
	srv.Handle(http.MethodGet, "/api/v1/accounts/verify_credentials", http.StatusOK, accountJSON)

	c := newClient(t, srv)
	if _, err := c.VerifyCredentials(context.Background()); err != nil {
		t.Fatalf("VerifyCredentials: %v", err)
	}

	got := srv.Last(t).Header.Values("Authorization")
	if len(got) != 1 || got[0] != "Bearer tok" {
		t.Errorf("Authorization headers = %q", got)
	}
}

func TestUserAgent(t *testing.T) {
	srv := testserver.New(t)
	srv.Handle(http.MethodGet, "/api/v1/instance", http.StatusOK, `{"uri":"example.social"}`)

	c, _ := client.New(client.Data{Base: srv.URL, Token: "tok"}, client.WithUserAgent("fedikit-test/1.0"))
	if _, err := c.Instance(context.Background()); err != nil {
		t.Fatalf("Instance: %v", err)
	}
	if ua := srv.Last(t).Header.Get("User-Agent"); ua != "fedikit-test/1.0" {
		t.Errorf("User-Agent = %q", ua)
	}
}

func TestAccessTokenRequired(t *testing.T) {
	srv := testserver.New(t)

	c, _ := client.New(client.Data{Base: srv.URL})
	_, err := c.HomeTimeline(context.Background())
	if !errors.Is(err, client.ErrAccessTokenRequired) {
		t.Fatalf("expected ErrAccessTokenRequired, got %v", err)
	}
	if n := len(srv.Requests()); n != 0 {
		t.Errorf("expected no request to be sent, got %d", n)
	}
}

func TestDecode_successWinsOverError(t *testing.T) {
	srv := testserver.New(t)
	body := `{"uri":"example.social","title":"Example","error":"ignored"}`
	srv.Handle(http.MethodGet, "/api/v1/instance", http.StatusOK, body)

	inst, err := newClient(t, srv).Instance(context.Background())
	if err != nil {
		t.Fatalf("Instance: %v", err)
	}
	if inst.Title != "Example" {
		t.Errorf("Title = %q", inst.Title)
	}
}

func TestDecode_apiErrorEnvelope(t *testing.T) {
	srv := testserver.New(t)
	srv.Handle(http.MethodGet, "/api/v1/timelines/home", http.StatusUnauthorized,
		`{"error":"The access token is invalid","error_description":"expired"}`)

	_, err := newClient(t, srv).HomeTimeline(context.Background())

	var e *client.Error
	if !errors.As(err, &e) || e.Kind != client.KindAPI {
		t.Fatalf("expected api error, got %v", err)
	}
	if e.API.Message != "The access token is invalid" {
		t.Errorf("Message = %q", e.API.Message)
	}
	if e.API.Description == nil || *e.API.Description != "expired" {
		t.Errorf("Description = %v", e.API.Description)
	}

	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		t.Error("expected errors.As to reach *APIError")
	}
}

func TestDecode_apiErrorWithOKStatus(t *testing.T) {
	srv := testserver.New(t)
	srv.Handle(http.MethodGet, "/api/v1/statuses/9", http.StatusOK, `{"error":"Record not found"}`)

	_, err := newClient(t, srv).Status(context.Background(), 9)
	if client.KindOf(err) != client.KindAPI {
		t.Fatalf("expected api error, got %v", err)
	}
}

func TestDecode_serdeWhenNeitherShape(t *testing.T) {
	srv := testserver.New(t)
	srv.Handle(http.MethodGet, "/api/v1/timelines/home", http.StatusOK, `{"unexpected":true}`)

	_, err := newClient(t, srv).HomeTimeline(context.Background())

	var e *client.Error
	if !errors.As(err, &e) || e.Kind != client.KindSerde {
		t.Fatalf("expected serde error, got %v", err)
	}
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) {
		t.Errorf("expected the first decode error to be carried, got %v", e.Err)
	}
}

func TestDecode_serdeOnMissingRequiredFields(t *testing.T) {
	srv := testserver.New(t)
	srv.Handle(http.MethodGet, "/api/v1/accounts/3", http.StatusOK, `{"note":"no id"}`)

	_, err := newClient(t, srv).Account(context.Background(), 3)
	if client.KindOf(err) != client.KindSerde {
		t.Fatalf("expected serde error, got %v", err)
	}
}

func TestDecode_serdeOnNonJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	c := client.MustNew(client.Data{Base: srv.URL, Token: "tok"})
	_, err := c.Instance(context.Background())
	if client.KindOf(err) != client.KindSerde {
		t.Fatalf("expected serde error, got %v", err)
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := client.MustNew(client.Data{Base: base, Token: "tok"})
	_, err := c.Instance(context.Background())
	if client.KindOf(err) != client.KindHTTP {
		t.Fatalf("expected http error, got %v", err)
	}
}

func TestTruncatedBody(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ln.Close() })

	// Promise 100 bytes, send a few, then hang up.
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		if _, err := http.ReadRequest(bufio.NewReader(conn)); err != nil {
			return
		}
		io.WriteString(conn, "HTTP/1.1 200 OK\r\n"+ //nolint:errcheck
			"Content-Type: application/json\r\n"+
			"Content-Length: 100\r\n\r\n"+
			`{"uri":"exa`)
	}()

	c := client.MustNew(client.Data{Base: "http://" + ln.Addr().String(), Token: "tok"})
	_, err = c.Instance(context.Background())
	if client.KindOf(err) != client.KindIO {
		t.Fatalf("expected io error, got %v", err)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected io.ErrUnexpectedEOF in chain, got %v", err)
	}
}

func TestErrorIs_matchesKind(t *testing.T) {
	err := &client.Error{Kind: client.KindClientIDRequired}
	if !errors.Is(err, client.ErrClientIDRequired) {
		t.Error("expected errors.Is to match on kind")
	}
	if errors.Is(err, client.ErrClientSecretRequired) {
		t.Error("different kinds must not match")
	}
}

func TestEmpty_decodesObject(t *testing.T) {
	srv := testserver.New(t)
	srv.Handle(http.MethodPost, "/api/v1/notifications/clear", http.StatusOK, `{}`)

	got, err := newClient(t, srv).ClearNotifications(context.Background())
	if err != nil {
		t.Fatalf("ClearNotifications: %v", err)
	}
	if got != (entities.Empty{}) {
		t.Errorf("unexpected value %+v", got)
	}
}
