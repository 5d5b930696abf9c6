// Package leetcode fetches problem statements, solution articles, playground
// code, slide timelines and media assets from LeetCode.
//
// GraphQL requests authenticate with the session cookie and CSRF token of a
// logged-in browser session; solution articles of premium problems are only
// returned for premium accounts. Responses are read with gjson paths so that
// null and absent fields both come back as empty values.
package leetcode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/alnah/go-leet2tex/internal/fileutil"
)

// Endpoint defaults.
const (
	DefaultGraphQLURL   = "https://leetcode.com/graphql"
	DefaultDocumentsURL = "https://assets.leetcode.com/static_assets/media/documents/"
	DefaultImagesURL    = "https://assets.leetcode.com/static_assets/media/original_images/"
	DefaultTimeout      = 30 * time.Second

	maxResponseSize = 32 << 20
	userAgent       = "go-leet2tex"
)

// Sentinel errors for LeetCode requests.
var (
	ErrRequest     = errors.New("leetcode request failed")
	ErrHTTPStatus  = errors.New("unexpected HTTP status")
	ErrGraphQL     = errors.New("graphql error")
	ErrInvalidJSON = errors.New("invalid JSON response")
)

const (
	questionQuery = `query questionDetail($titleSlug: String!) {
  question(titleSlug: $titleSlug) {
    title
    titleSlug
    content
  }
}`

	solutionQuery = `query ugcArticleOfficialSolutionArticle($questionSlug: String!) {
  ugcArticleOfficialSolutionArticle(questionSlug: $questionSlug) {
    content
  }
}`

	playgroundQuery = `query fetchPlayground($uuid: String!) {
  allPlaygroundCodes(uuid: $uuid) {
    code
    langSlug
  }
}`
)

// Question is a problem statement. Content is HTML.
type Question struct {
	Title   string
	Content string
}

// PlaygroundCode is one language variant of an embedded playground.
type PlaygroundCode struct {
	Lang string
	Code string
}

// Client talks to the LeetCode GraphQL API and asset CDN.
// A Client is safe for concurrent use.
type Client struct {
	http         *http.Client
	graphqlURL   string
	documentsURL string
	imagesURL    string
	session      string
	csrfToken    string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client. Its timeout applies as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
// Panics if d is zero or negative.
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("leetcode: timeout must be positive")
	}
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithGraphQLURL overrides the GraphQL endpoint.
func WithGraphQLURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.graphqlURL = u
		}
	}
}

// WithDocumentsURL overrides the slide-deck document base URL.
func WithDocumentsURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.documentsURL = withTrailingSlash(u)
		}
	}
}

// WithImagesURL overrides the base URL relative figure paths resolve against.
func WithImagesURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.imagesURL = withTrailingSlash(u)
		}
	}
}

// WithCredentials sets the LEETCODE_SESSION cookie and CSRF token.
func WithCredentials(session, csrfToken string) Option {
	return func(c *Client) {
		c.session = session
		c.csrfToken = csrfToken
	}
}

// New creates a Client with default endpoints and no credentials.
func New(opts ...Option) *Client {
	c := &Client{
		http:         &http.Client{Timeout: DefaultTimeout},
		graphqlURL:   DefaultGraphQLURL,
		documentsURL: DefaultDocumentsURL,
		imagesURL:    DefaultImagesURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Question fetches the title and HTML content of a problem.
// A null question yields a zero Question and no error.
func (c *Client) Question(ctx context.Context, slug string) (Question, error) {
	data, err := c.graphql(ctx, "questionDetail", questionQuery, "titleSlug", slug)
	if err != nil {
		return Question{}, err
	}
	q := data.Get("question")
	return Question{
		Title:   q.Get("title").String(),
		Content: q.Get("content").String(),
	}, nil
}

// Solution fetches the Markdown body of the official solution article.
// A missing article yields an empty string and no error.
func (c *Client) Solution(ctx context.Context, slug string) (string, error) {
	data, err := c.graphql(ctx, "ugcArticleOfficialSolutionArticle", solutionQuery, "questionSlug", slug)
	if err != nil {
		return "", err
	}
	return data.Get("ugcArticleOfficialSolutionArticle.content").String(), nil
}

// PlaygroundCodes fetches every language variant of a playground.
func (c *Client) PlaygroundCodes(ctx context.Context, uuid string) ([]PlaygroundCode, error) {
	data, err := c.graphql(ctx, "fetchPlayground", playgroundQuery, "uuid", uuid)
	if err != nil {
		return nil, err
	}

	var codes []PlaygroundCode
	data.Get("allPlaygroundCodes").ForEach(func(_, v gjson.Result) bool {
		codes = append(codes, PlaygroundCode{
			Lang: v.Get("langSlug").String(),
			Code: v.Get("code").String(),
		})
		return true
	})
	return codes, nil
}

// SlideTimeline fetches a slide-deck document and returns the image field
// of every timeline entry in order. Entries without an image are skipped.
func (c *Client) SlideTimeline(ctx context.Context, name string) ([]string, error) {
	body, err := c.get(ctx, c.documentsURL+name)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidJSON, name)
	}

	var images []string
	gjson.GetBytes(body, "timeline").ForEach(func(_, entry gjson.Result) bool {
		if img := entry.Get("image"); img.Exists() {
			images = append(images, img.String())
		}
		return true
	})
	return images, nil
}

// Asset downloads a binary asset. Absolute URLs are fetched as is; anything
// else is a path below the figure image root.
func (c *Client) Asset(ctx context.Context, ref string) ([]byte, error) {
	return c.get(ctx, c.AssetURL(ref))
}

// AssetURL resolves ref the way Asset does.
func (c *Client) AssetURL(ref string) string {
	if fileutil.IsURL(ref) {
		return ref
	}
	return c.imagesURL + strings.TrimPrefix(ref, "/")
}

// graphql posts one operation with a single string variable and returns the
// data object.
func (c *Client) graphql(ctx context.Context, operation, query, variable, value string) (gjson.Result, error) {
	payload, err := sjson.SetBytes([]byte(`{}`), "operationName", operation)
	if err == nil {
		payload, err = sjson.SetBytes(payload, "query", query)
	}
	if err == nil {
		payload, err = sjson.SetBytes(payload, "variables."+variable, value)
	}
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%w: building %s payload: %v", ErrRequest, operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlURL, bytes.NewReader(payload))
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%w: %v", ErrRequest, err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	body, err := c.do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%s: %w", operation, err)
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("%s: %w", operation, ErrInvalidJSON)
	}

	root := gjson.ParseBytes(body)
	data := root.Get("data")
	if msg := root.Get("errors.0.message"); msg.Exists() && (!data.Exists() || data.Type == gjson.Null) {
		return gjson.Result{}, fmt.Errorf("%s: %w: %s", operation, ErrGraphQL, msg.String())
	}
	return data, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequest, err)
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %d from %s", ErrHTTPStatus, resp.StatusCode, req.URL.Redacted())
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrRequest, err)
	}
	return body, nil
}

// authorize attaches the session cookie and CSRF header when configured.
func (c *Client) authorize(req *http.Request) {
	var cookies []string
	if c.csrfToken != "" {
		cookies = append(cookies, "csrftoken="+c.csrfToken)
		req.Header.Set("x-csrftoken", c.csrfToken)
	}
	if c.session != "" {
		cookies = append(cookies, "LEETCODE_SESSION="+c.session)
	}
	if len(cookies) > 0 {
		req.Header.Set("Cookie", strings.Join(cookies, "; "))
	}
	req.Header.Set("Referer", "https://leetcode.com/")
}

func withTrailingSlash(u string) string {
	if strings.HasSuffix(u, "/") {
		return u
	}
	return u + "/"
}
