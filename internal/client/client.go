// Package client is the HTTP client used by the bookhub CLI. Requests go
// through a circuit breaker so an unreachable server fails fast.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"

	"bookhub/internal/logging"
	"bookhub/pkg/models"
)

const DefaultBaseURL = "http://localhost:8080"

// APIError is a non-2xx answer from the server.
type APIError struct {
	Method     string
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s failed (%d): %s", e.Method, e.Endpoint, e.StatusCode, e.Message)
}

type Client struct {
	BaseURL string
	Token   string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker[[]byte]
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		cb: gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:        "bookhub-api",
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
			// Client errors mean the server is up.
			IsSuccessful: func(err error) bool {
				var apiErr *APIError
				if errors.As(err, &apiErr) {
					return apiErr.StatusCode < http.StatusInternalServerError
				}
				return err == nil
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			},
		}),
	}
}

// State reports the breaker state, for diagnostics.
func (c *Client) State() string {
	return c.cb.State().String()
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload, out any) error {
	endpoint := c.BaseURL + path
	data, err := c.cb.Execute(func() ([]byte, error) {
		return c.send(ctx, method, endpoint, payload)
	})
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

func (c *Client) send(ctx context.Context, method, endpoint string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return nil, &APIError{
			Method:     method,
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(data),
		}
	}
	return data, nil
}

func errorMessage(data []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		return body.Error
	}
	return strings.TrimSpace(string(data))
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
	User      struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Role     string `json:"role"`
	} `json:"user"`
}

func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	var resp LoginResponse
	payload := map[string]string{"username": username, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

func (c *Client) Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	var resp models.ChatResponse
	if err := c.doJSON(ctx, http.MethodPost, "/chat", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TestProcessing asks the server to classify message without recording it.
func (c *Client) TestProcessing(ctx context.Context, message string) (map[string]any, error) {
	var resp map[string]any
	if err := c.doJSON(ctx, http.MethodGet, "/ai/test-processing/"+url.PathEscape(message), nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Stats(ctx context.Context) (map[string]any, error) {
	var resp map[string]any
	if err := c.doJSON(ctx, http.MethodGet, "/ai/stats", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

type ConfigureRequest struct {
	ConfidenceThreshold *float64 `json:"confidence_threshold,omitempty"`
	AdvancedProcessing  *bool    `json:"advanced_processing,omitempty"`
}

func (c *Client) Configure(ctx context.Context, req ConfigureRequest) (map[string]any, error) {
	var resp map[string]any
	if err := c.doJSON(ctx, http.MethodPost, "/ai/configure", req, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) ResetStats(ctx context.Context) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/ai/stats/reset", nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) ReloadCatalog(ctx context.Context) (int, error) {
	var resp struct {
		Books int `json:"books"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/admin/catalog/reload", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Books, nil
}

type BookQuery struct {
	Q          string
	Genre      string
	Author     string
	Year       int
	Bestseller *bool
	Limit      int
	Offset     int
}

type BookPage struct {
	Total  int           `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
	Items  []models.Book `json:"items"`
}

func (c *Client) SearchBooks(ctx context.Context, q BookQuery) (*BookPage, error) {
	qv := url.Values{}
	if q.Q != "" {
		qv.Set("q", q.Q)
	}
	if q.Genre != "" {
		qv.Set("genre", q.Genre)
	}
	if q.Author != "" {
		qv.Set("author", q.Author)
	}
	if q.Year != 0 {
		qv.Set("year", strconv.Itoa(q.Year))
	}
	if q.Bestseller != nil {
		qv.Set("bestseller", strconv.FormatBool(*q.Bestseller))
	}
	if q.Limit > 0 {
		qv.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		qv.Set("offset", strconv.Itoa(q.Offset))
	}
	path := "/books"
	if len(qv) > 0 {
		path += "?" + qv.Encode()
	}

	var resp BookPage
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AllBooks pages through /books until the catalog is exhausted.
func (c *Client) AllBooks(ctx context.Context) ([]models.Book, error) {
	var out []models.Book
	offset := 0
	for {
		page, err := c.SearchBooks(ctx, BookQuery{Limit: 100, Offset: offset})
		if err != nil {
			return nil, err
		}
		if len(page.Items) == 0 {
			break
		}
		out = append(out, page.Items...)
		offset += len(page.Items)
		if offset >= page.Total {
			break
		}
	}
	return out, nil
}

type HistoryPage struct {
	UserID string            `json:"user_id"`
	Total  int               `json:"total"`
	Items  []models.ChatTurn `json:"items"`
}

func (c *Client) History(ctx context.Context, userID string, limit int) (*HistoryPage, error) {
	path := "/chat/history/" + url.PathEscape(userID)
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var resp HistoryPage
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// WebsocketURL turns the API base URL into the chat websocket endpoint.
func WebsocketURL(baseURL, path string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	scheme := "ws"
	if u.Scheme == "https" {
		scheme = "wss"
	}
	return (&url.URL{Scheme: scheme, Host: u.Host, Path: path}).String(), nil
}
