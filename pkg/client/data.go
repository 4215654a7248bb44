package client

import (
	"fmt"
	"net/url"
	"strings"
)

// Data is the persistable credential bundle produced by registration. Save
// it with encoding/json to avoid registering on every run; this package
// never writes it anywhere.
//
// A bundle with an empty Token can only be used to exchange an
// authorization code.
type Data struct {
	Base         string `json:"base"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Redirect     string `json:"redirect"`
	Token        string `json:"token"`
}

// normalizeBase checks that raw is an absolute URL without a query or
// fragment and strips any trailing slash so paths can be appended directly.
func normalizeBase(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", wrapErr(KindURLParse, fmt.Errorf("parse base URL: %w", err))
	}
	if u.Scheme == "" || u.Host == "" {
		return "", wrapErr(KindURLParse, fmt.Errorf("base URL %q is not absolute", raw))
	}
	if u.RawQuery != "" || u.ForceQuery || u.Fragment != "" {
		return "", wrapErr(KindURLParse, fmt.Errorf("base URL %q must not carry a query or fragment", raw))
	}
	return strings.TrimRight(raw, "/"), nil
}
