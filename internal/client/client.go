// Package client is the Go API client for a platefeed server. The view
// layer uses it to populate and patch its cache; every mutation is
// confirmed by the server before the caller sees the result.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/platefeed/platefeed/internal/circuitbreaker"
	"github.com/platefeed/platefeed/internal/record"
)

// APIError is a non-2xx response from the server, carrying the
// server-provided message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// IsValidation reports whether err is a 4xx validation rejection.
func IsValidation(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) &&
		apiErr.Status >= 400 && apiErr.Status < 500 && apiErr.Status != http.StatusNotFound
}

// Client talks JSON over HTTP to a platefeed server. A circuit breaker
// fails calls fast while the backend is down; only transport errors and
// 5xx responses trip it. Nothing is retried automatically.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *circuitbreaker.Breaker
}

// New creates a Client for the given base URL (e.g. "http://localhost:8080").
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		breaker: circuitbreaker.New(5, 30*time.Second),
	}
}

// ListRecipes fetches the full feed.
func (c *Client) ListRecipes(ctx context.Context) ([]record.RecipeWithStats, error) {
	var recipes []record.RecipeWithStats
	err := c.do(ctx, http.MethodGet, "/v1/recipes", nil, http.StatusOK, &recipes)
	return recipes, err
}

// CreateRecipe submits a new recipe and returns the stored row.
func (c *Client) CreateRecipe(ctx context.Context, req record.CreateRecipeRequest) (*record.Recipe, error) {
	var r record.Recipe
	if err := c.do(ctx, http.MethodPost, "/v1/recipes", req, http.StatusCreated, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// LikeRecipe registers one like and returns the confirmed count.
func (c *Client) LikeRecipe(ctx context.Context, id int64) (int64, error) {
	var out struct {
		Likes int64 `json:"likes"`
	}
	path := "/v1/recipes/" + strconv.FormatInt(id, 10) + "/like"
	if err := c.do(ctx, http.MethodPost, path, nil, http.StatusOK, &out); err != nil {
		return 0, err
	}
	return out.Likes, nil
}

// AddReview submits a review for a recipe and returns the stored row.
func (c *Client) AddReview(ctx context.Context, req record.CreateReviewRequest) (*record.Review, error) {
	var v record.Review
	path := "/v1/recipes/" + strconv.FormatInt(req.RecipeID, 10) + "/reviews"
	body := map[string]any{"username": req.Username, "rating": req.Rating, "text": req.Text}
	if err := c.do(ctx, http.MethodPost, path, body, http.StatusCreated, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// ListReviews fetches reviews, optionally for a single recipe (0 = all).
func (c *Client) ListReviews(ctx context.Context, recipeID int64) ([]record.Review, error) {
	path := "/v1/reviews"
	if recipeID != 0 {
		path += "?recipe_id=" + strconv.FormatInt(recipeID, 10)
	}
	var reviews []record.Review
	err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK, &reviews)
	return reviews, err
}

// RatingsSummary fetches review counts per rating bucket.
func (c *Client) RatingsSummary(ctx context.Context) (record.RatingHistogram, error) {
	var raw map[string]int64
	if err := c.do(ctx, http.MethodGet, "/v1/ratings-summary", nil, http.StatusOK, &raw); err != nil {
		return record.RatingHistogram{}, err
	}
	var hist record.RatingHistogram
	for rating := 1; rating <= 5; rating++ {
		hist[rating-1] = raw[strconv.Itoa(rating)]
	}
	return hist, nil
}

// BreakerState exposes the breaker for callers that want to surface a
// "backend down" notice instead of issuing doomed requests.
func (c *Client) BreakerState() circuitbreaker.State {
	return c.breaker.State()
}

func (c *Client) do(ctx context.Context, method, path string, body any, wantStatus int, out any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	var apiErr *APIError
	err = c.breaker.Do(func() error {
		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("%s %s: %w", method, path, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("%s %s: server error %d", method, path, resp.StatusCode)
		}

		// 4xx responses mean the backend is healthy; they must not trip
		// the breaker, so they are captured and returned outside of it.
		if resp.StatusCode != wantStatus {
			apiErr = &APIError{Status: resp.StatusCode, Message: decodeErrorMessage(resp.Body)}
			return nil
		}

		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if apiErr != nil {
		return apiErr
	}
	return nil
}

func decodeErrorMessage(r io.Reader) string {
	var body struct {
		Message string `json:"error"`
	}
	if err := json.NewDecoder(r).Decode(&body); err != nil || body.Message == "" {
		return "request failed"
	}
	return body.Message
}
