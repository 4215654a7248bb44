package client

import (
	"net/url"
	"strconv"
	"strings"
)

// query is an ordered list of query-string parameters. Order is kept as
// added so constructed URLs are predictable.
type query []queryParam

type queryParam struct {
	key   string
	value string
}

func (q *query) add(key, value string) {
	*q = append(*q, queryParam{key: key, value: value})
}

// flag adds key=1 when on. A false flag is never sent.
func (q *query) flag(key string, on bool) {
	if on {
		q.add(key, "1")
	}
}

// optUint adds key=n unless n is zero.
func (q *query) optUint(key string, n uint64) {
	if n != 0 {
		q.add(key, strconv.FormatUint(n, 10))
	}
}

// ids adds a list of ids. A single id uses the scalar form key=v; more use
// the repeated key[]=v form.
func (q *query) ids(key string, ids []uint64) {
	if len(ids) == 1 {
		q.add(key, strconv.FormatUint(ids[0], 10))
		return
	}
	for _, id := range ids {
		q.add(key+"[]", strconv.FormatUint(id, 10))
	}
}

func (q query) encode() string {
	var sb strings.Builder
	for i, p := range q {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(strings.ReplaceAll(url.QueryEscape(p.key), "%5B%5D", "[]"))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.value))
	}
	return sb.String()
}

// formIDs adds ids to a form using the bracket form regardless of length.
func formIDs(form url.Values, key string, ids []uint64) {
	for _, id := range ids {
		form.Add(key+"[]", strconv.FormatUint(id, 10))
	}
}
