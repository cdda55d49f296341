package pcprice

import (
	"net/url"
	"strconv"
	"strings"
)

// query is an ordered list of query parameters. url.Values sorts keys on
// Encode, which would reorder limit/component_type.
type query []queryParam

type queryParam struct {
	key, value string
}

func (q query) add(key, value string) query {
	return append(q, queryParam{key: key, value: value})
}

func (q query) addInt(key string, v int) query {
	return q.add(key, strconv.Itoa(v))
}

// addOptional skips empty values.
func (q query) addOptional(key, value string) query {
	if value == "" {
		return q
	}
	return q.add(key, value)
}

func (q query) encode() string {
	if len(q) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range q {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(escapeQuery(p.key))
		b.WriteByte('=')
		b.WriteString(escapeQuery(p.value))
	}
	return b.String()
}

// escapeQuery percent-encodes s with spaces as %20. QueryEscape encodes a
// literal '+' as %2B, so any '+' left in its output stands for a space.
func escapeQuery(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// endpoint joins the client base URL, the path segments and the query.
// Segments are escaped individually so a '/' inside a product name stays
// within its segment.
func (c *Client) endpoint(q query, segments ...string) string {
	var b strings.Builder
	b.WriteString(c.baseURL)
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	if enc := q.encode(); enc != "" {
		b.WriteByte('?')
		b.WriteString(enc)
	}
	return b.String()
}
