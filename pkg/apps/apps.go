// Package apps describes an application to be registered with a service
// instance and the permission scopes it asks for.
package apps

import (
	"fmt"
	"net/url"
	"strings"
)

// Scope is the permission set requested by an app. The zero value is invalid.
type Scope int

const (
	Read Scope = iota + 1
	Write
	Follow
	ReadWrite
	ReadFollow
	WriteFollow
	ReadWriteFollow
)

var scopeTokens = map[Scope]string{
	Read:            "read",
	Write:           "write",
	Follow:          "follow",
	ReadWrite:       "read write",
	ReadFollow:      "read follow",
	WriteFollow:     "write follow",
	ReadWriteFollow: "read write follow",
}

// String returns the wire form: space-separated tokens in read, write,
// follow order.
func (s Scope) String() string {
	if t, ok := scopeTokens[s]; ok {
		return t
	}
	return fmt.Sprintf("Scope(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Scope) MarshalText() ([]byte, error) {
	t, ok := scopeTokens[s]
	if !ok {
		return nil, fmt.Errorf("invalid scope %d", int(s))
	}
	return []byte(t), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Scope) UnmarshalText(b []byte) error {
	parsed, err := ParseScope(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseScope parses a scope list such as "read write" or "follow,read".
// Tokens may appear in any order and are normalised to the canonical one.
func ParseScope(raw string) (Scope, error) {
	var read, write, follow bool
	fields := strings.FieldsFunc(raw, func(r rune) bool { return r == ' ' || r == ',' })
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty scope")
	}
	for _, f := range fields {
		switch strings.ToLower(f) {
		case "read":
			read = true
		case "write":
			write = true
		case "follow":
			follow = true
		default:
			return 0, fmt.Errorf("unknown scope token %q", f)
		}
	}

	switch {
	case read && write && follow:
		return ReadWriteFollow, nil
	case read && write:
		return ReadWrite, nil
	case read && follow:
		return ReadFollow, nil
	case write && follow:
		return WriteFollow, nil
	case read:
		return Read, nil
	case write:
		return Write, nil
	default:
		return Follow, nil
	}
}

// OOBRedirect is the out-of-band redirect URI: the service shows the
// authorization code to the user instead of redirecting.
const OOBRedirect = "urn:ietf:wg:oauth:2.0:oob"

// AppBuilder is the registration payload for POST /api/v1/apps.
type AppBuilder struct {
	ClientName string
	// RedirectURIs is one or more redirect URIs, comma-separated.
	RedirectURIs string
	Scopes       Scope
	// Website is optional.
	Website string
}

// Form returns the form-encoded registration payload. It fails if Scopes is
// not one of the defined scopes.
func (a AppBuilder) Form() (url.Values, error) {
	scopes, err := a.Scopes.MarshalText()
	if err != nil {
		return nil, err
	}
	form := url.Values{}
	form.Set("client_name", a.ClientName)
	form.Set("redirect_uris", a.RedirectURIs)
	form.Set("scopes", string(scopes))
	if a.Website != "" {
		form.Set("website", a.Website)
	}
	return form, nil
}
