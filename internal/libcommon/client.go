package libcommon

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/five82/shelf/internal/logging"
)

var jsonCodec = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	contentTypeJSON = "application/json"
	uploadFieldName = "file"

	maxIdleConns        = 10
	maxIdleConnsPerHost = 4
	idleConnTimeout     = 30 * time.Second
)

// Env holds the collaborators a Client needs. Nil members get defaults: an
// in-memory storage, a navigator that does nothing, a pooled http.Client
// without timeout, and a discarding logger.
type Env struct {
	Storage    Storage
	Navigator  Navigator
	HTTPClient *http.Client
	Logger     logging.Logger
}

// Client talks to the library API using the credentials in two storage slots.
// It is safe for concurrent use.
type Client struct {
	cfg         Config
	tokenKey    string
	userInfoKey string
	storage     Storage
	navigator   Navigator
	http        *http.Client
	log         logging.Logger
}

// Params is a query string in map form. Nil values are skipped; []string
// values repeat the key.
type Params map[string]any

// Encode renders the params as a URL query, keys sorted.
func (p Params) Encode() string {
	values := url.Values{}
	for key, value := range p {
		switch v := value.(type) {
		case nil:
		case []string:
			for _, item := range v {
				values.Add(key, item)
			}
		default:
			values.Set(key, fmt.Sprint(v))
		}
	}
	return values.Encode()
}

// RequestOptions describes a single call made through Request.
type RequestOptions struct {
	Method string
	Body   io.Reader
	// Header entries replace the computed ones on key collision.
	Header http.Header
}

// NewHTTPClient binds a client to the token and user-info slot names. It
// performs no I/O.
func NewHTTPClient(cfg Config, tokenKey, userInfoKey string, env Env) *Client {
	c := &Client{
		cfg:         cfg.normalized(),
		tokenKey:    tokenKey,
		userInfoKey: userInfoKey,
		storage:     env.Storage,
		navigator:   env.Navigator,
		http:        env.HTTPClient,
		log:         env.Logger,
	}
	if c.storage == nil {
		c.storage = &MemoryStorage{}
	}
	if c.navigator == nil {
		c.navigator = noopNavigator{}
	}
	if c.http == nil {
		c.http = NewTransportClient(0)
	}
	if c.log == nil {
		c.log = logging.Discard()
	}
	return c
}

// NewTransportClient returns an http.Client with a pooled transport. A zero
// timeout leaves requests unbounded apart from their context.
func NewTransportClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        maxIdleConns,
			MaxIdleConnsPerHost: maxIdleConnsPerHost,
			IdleConnTimeout:     idleConnTimeout,
		},
	}
}

// BaseURL returns the API root requests are sent to.
func (c *Client) BaseURL() string { return c.cfg.BaseURL }

// Placeholders returns the fallback image set of the client's config.
func (c *Client) Placeholders() Placeholders { return c.cfg.Placeholders }

// GetToken reads the token slot. Absent or unreadable tokens are "".
func (c *Client) GetToken() string {
	token, err := c.storage.GetItem(c.tokenKey)
	if err != nil {
		c.log.Warnf("read token slot %q: %v", c.tokenKey, err)
		return ""
	}
	return token
}

// Get issues a GET with params appended as a query string when non-empty.
func (c *Client) Get(ctx context.Context, path string, params Params, out any) error {
	if query := params.Encode(); query != "" {
		path = path + "?" + query
	}
	return c.Request(ctx, path, RequestOptions{Method: http.MethodGet}, out)
}

// Post issues a POST with data encoded as JSON.
func (c *Client) Post(ctx context.Context, path string, data, out any) error {
	body, err := encodeBody(data)
	if err != nil {
		return err
	}
	return c.Request(ctx, path, RequestOptions{Method: http.MethodPost, Body: body}, out)
}

// Put issues a PUT with data encoded as JSON.
func (c *Client) Put(ctx context.Context, path string, data, out any) error {
	body, err := encodeBody(data)
	if err != nil {
		return err
	}
	return c.Request(ctx, path, RequestOptions{Method: http.MethodPut, Body: body}, out)
}

// Delete issues a DELETE without a body.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Request(ctx, path, RequestOptions{Method: http.MethodDelete}, out)
}

// UploadFile posts the contents of r as multipart field "file". The
// multipart writer owns the Content-Type header.
func (c *Client) UploadFile(ctx context.Context, path, filename string, r io.Reader, out any) error {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile(uploadFieldName, filename)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("read upload: %w", err)
	}
	if err := form.Close(); err != nil {
		return fmt.Errorf("close form: %w", err)
	}
	return c.send(ctx, path, RequestOptions{Method: http.MethodPost, Body: &buf}, form.FormDataContentType(), fallbackUploadMessage, out)
}

// Request is the shared routine behind Get, Post, Put and Delete. The
// envelope's data is decoded into out unless out is nil or data is absent.
func (c *Client) Request(ctx context.Context, path string, opts RequestOptions, out any) error {
	return c.send(ctx, path, opts, contentTypeJSON, fallbackRequestMessage, out)
}

func (c *Client) send(ctx context.Context, path string, opts RequestOptions, contentType, fallback string, out any) error {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, opts.Body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header = c.headers(contentType, opts.Header)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.log.Debugf("%s %s failed: %v", method, path, err)
		return ErrNetwork
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	env, err := decodeEnvelope(body)
	if err != nil {
		return err
	}
	c.log.Debugf("%s %s -> %d", method, path, resp.StatusCode)

	if resp.StatusCode == http.StatusUnauthorized {
		c.expireSession()
		return ErrSessionExpired
	}
	if !env.ok() {
		return &APIError{Code: env.code(), Message: env.messageOr(fallback)}
	}
	if out == nil || !env.hasData() {
		return nil
	}
	return jsonCodec.Unmarshal(env.fields["data"], out)
}

func (c *Client) headers(contentType string, extra http.Header) http.Header {
	header := http.Header{}
	header.Set("Accept", contentTypeJSON)
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	if token := c.GetToken(); token != "" {
		header.Set("Authorization", "Bearer "+token)
	}
	for key, values := range extra {
		header.Del(key)
		for _, v := range values {
			header.Add(key, v)
		}
	}
	return header
}

func (c *Client) expireSession() {
	c.log.Warnf("session expired, clearing %q and %q", c.tokenKey, c.userInfoKey)
	if err := c.storage.RemoveItem(c.tokenKey); err != nil {
		c.log.Errorf("clear token slot: %v", err)
	}
	if err := c.storage.RemoveItem(c.userInfoKey); err != nil {
		c.log.Errorf("clear user info slot: %v", err)
	}
	c.navigator.Reload()
}

// A nil data sends no body at all.
func encodeBody(data any) (io.Reader, error) {
	if data == nil {
		return nil, nil
	}
	encoded, err := jsonCodec.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	return bytes.NewReader(encoded), nil
}
