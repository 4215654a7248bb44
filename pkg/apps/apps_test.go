package apps_test

import (
	"testing"

	"github.com/jmerrifield20/fedikit/pkg/apps"
)

func TestScopeString(t *testing.T) {
	cases := map[apps.Scope]string{
		apps.Read:            "read",
		apps.Write:           "write",
		apps.Follow:          "follow",
		apps.ReadWrite:       "read write",
		apps.ReadFollow:      "read follow",
		apps.WriteFollow:     "write follow",
		apps.ReadWriteFollow: "read write follow",
	}
	for scope, want := range cases {
		if got := scope.String(); got != want {
			t.Errorf("Scope(%d).String() = %q, want %q", int(scope), got, want)
		}
	}
}

func TestParseScope_canonicalOrder(t *testing.T) {
	cases := map[string]apps.Scope{
		"read":              apps.Read,
		"follow read":       apps.ReadFollow,
		"follow,write":      apps.WriteFollow,
		"write read":        apps.ReadWrite,
		"follow write read": apps.ReadWriteFollow,
		"READ":              apps.Read,
	}
	for raw, want := range cases {
		got, err := apps.ParseScope(raw)
		if err != nil {
			t.Fatalf("ParseScope(%q): %v", raw, err)
		}
		if got != want {
			t.Errorf("ParseScope(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestParseScope_invalid(t *testing.T) {
	for _, raw := range []string{"", "admin", "read push"} {
		if _, err := apps.ParseScope(raw); err == nil {
			t.Errorf("ParseScope(%q): expected error", raw)
		}
	}
}

func TestScopeMarshalText_zeroValue(t *testing.T) {
	var s apps.Scope
	if _, err := s.MarshalText(); err == nil {
		t.Error("expected error marshalling zero scope")
	}
}

func TestAppBuilderForm(t *testing.T) {
	app := apps.AppBuilder{
		ClientName:   "t",
		RedirectURIs: apps.OOBRedirect,
		Scopes:       apps.ReadWrite,
	}
	form, err := app.Form()
	if err != nil {
		t.Fatalf("Form: %v", err)
	}
	if got := form.Get("scopes"); got != "read write" {
		t.Errorf("scopes = %q", got)
	}
	if _, ok := form["website"]; ok {
		t.Error("website should be omitted when empty")
	}
	if got := form.Encode(); got != "client_name=t&redirect_uris=urn%3Aietf%3Awg%3Aoauth%3A2.0%3Aoob&scopes=read+write" {
		t.Errorf("unexpected encoding: %s", got)
	}

	app.Website = "https://example.org"
	form, err = app.Form()
	if err != nil {
		t.Fatalf("Form: %v", err)
	}
	if got := form.Get("website"); got != "https://example.org" {
		t.Errorf("website = %q", got)
	}
}

func TestAppBuilderForm_invalidScope(t *testing.T) {
	for _, s := range []apps.Scope{0, apps.ReadWriteFollow + 1} {
		app := apps.AppBuilder{ClientName: "t", RedirectURIs: apps.OOBRedirect, Scopes: s}
		if form, err := app.Form(); err == nil {
			t.Errorf("Form() with scope %d = %v, want error", int(s), form)
		}
	}
}
