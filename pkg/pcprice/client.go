// Package pcprice is a typed client for the PC price-comparison REST API.
//
// Every operation issues exactly one GET against the configured base address
// and returns either the decoded value or one of the error types in
// errors.go. Nothing is retried or cached. Use Async and Loop to receive
// results on a single designated goroutine.
package pcprice

import (
	"context"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/go-faster/errors"

	"github.com/Adda-Baaj/pcprice/pkg/httpclient"
)

// Version is reported in the User-Agent header.
const Version = "0.3.0"

// DefaultBaseURL is the address of a locally running service.
const DefaultBaseURL = "http://localhost:8000/api"

// Logger is the logging surface the client relies on.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) InfoObj(string, string, interface{})  {}
func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) WarnObj(string, string, interface{})  {}
func (noopLogger) ErrorObj(string, string, interface{}) {}

// Client talks to one price-comparison service. It holds no mutable state
// and is safe for concurrent use.
type Client struct {
	baseURL string
	http    httpclient.Client
	log     Logger
	headers map[string]string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default resty-backed transport.
func WithHTTPClient(hc httpclient.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger used for decode diagnostics.
func WithLogger(log Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a client for the service rooted at baseURL,
// e.g. "http://localhost:8000/api".
func New(baseURL string, opts ...Option) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(base)
	if err != nil {
		return nil, errors.Wrap(err, "parse base url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, errors.Errorf("base url %q: host is empty", baseURL)
	}
	if u.RawQuery != "" || u.ForceQuery || u.Fragment != "" {
		return nil, errors.Errorf("base url %q: query and fragment are not allowed", baseURL)
	}

	c := &Client{
		baseURL: base,
		log:     noopLogger{},
		headers: map[string]string{
			"Accept":     "application/json",
			"User-Agent": "pcprice-go/" + Version,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		// zero timeout: the transport default applies
		c.http = httpclient.NewRestyClient(0)
	}
	return c, nil
}

// BaseURL returns the normalized base address.
func (c *Client) BaseURL() string { return c.baseURL }

// fetch performs the GET and applies the transport, protocol, status and
// empty-body checks shared by every operation.
func (c *Client) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	resp, err := c.http.Get(ctx, rawURL, c.headers)
	if err != nil {
		if isProtocolFailure(err) {
			return nil, &ProtocolError{URL: rawURL, Err: err}
		}
		return nil, &TransportError{URL: rawURL, Err: err}
	}
	if resp == nil {
		return nil, &ProtocolError{URL: rawURL, Err: errors.New("no response")}
	}

	status := resp.StatusCode()
	if status < 100 || status > 599 {
		return nil, &ProtocolError{URL: rawURL, Err: errors.Errorf("invalid status code %d", status)}
	}
	if status < 200 || status > 299 {
		return nil, &HTTPStatusError{URL: rawURL, StatusCode: status}
	}
	return resp.Body(), nil
}

// getJSON is the generic response handler behind every typed operation.
func getJSON[T any](ctx context.Context, c *Client, rawURL string) (*T, error) {
	body, err := c.fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, &EmptyBodyError{URL: rawURL}
	}

	out, err := decodeStrict[T](body)
	if err != nil {
		c.log.WarnObj("pcprice response decode failed", "decode_error", map[string]any{
			"url":   rawURL,
			"error": err.Error(),
			"body":  bodySnippet(body),
		})
		return nil, &DecodeError{URL: rawURL, Body: body, Err: err}
	}
	return out, nil
}

// isProtocolFailure reports whether err comes from parsing a malformed HTTP
// response rather than from the network. net/http does not export a type for
// a bad status line, so the message is matched as well.
func isProtocolFailure(err error) bool {
	var perr textproto.ProtocolError
	if errors.As(err, &perr) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "malformed HTTP") ||
		strings.Contains(msg, "malformed MIME header")
}

func bodySnippet(body []byte) string {
	const maxLen = 2048
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
