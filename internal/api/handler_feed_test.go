package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/platefeed/platefeed/internal/record"
	"github.com/platefeed/platefeed/internal/service"
	"github.com/platefeed/platefeed/internal/storage"
)

// --- Mock RecipeStore ---

type mockRecipeStore struct {
	recipes  map[int64]*record.Recipe
	reviews  []record.Review
	nextID   int64
	failWith error
}

func newMockRecipeStore() *mockRecipeStore {
	return &mockRecipeStore{recipes: make(map[int64]*record.Recipe)}
}

func (m *mockRecipeStore) InsertRecipe(_ context.Context, req record.CreateRecipeRequest) (*record.Recipe, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	m.nextID++
	r := &record.Recipe{
		ID:           m.nextID,
		Title:        req.Title,
		Category:     req.Category,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		ImageURL:     req.ImageURL,
		CreatedBy:    req.CreatedBy,
		CreatedAt:    time.Now(),
	}
	m.recipes[r.ID] = r
	return r, nil
}

func (m *mockRecipeStore) GetRecipe(_ context.Context, id int64) (*record.Recipe, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	r, ok := m.recipes[id]
	if !ok {
		return nil, storage.ErrRecipeNotFound
	}
	return r, nil
}

func (m *mockRecipeStore) ListRecipes(_ context.Context) ([]record.RecipeWithStats, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := make([]record.RecipeWithStats, 0, len(m.recipes))
	for id := int64(1); id <= m.nextID; id++ {
		r, ok := m.recipes[id]
		if !ok {
			continue
		}
		stats := record.RecipeWithStats{Recipe: *r}
		var total, count int64
		for _, v := range m.reviews {
			if v.RecipeID == id {
				total += int64(v.Rating)
				count++
			}
		}
		if count > 0 {
			avg := float64(total) / float64(count)
			stats.AvgRating = &avg
			stats.ReviewCount = count
		}
		out = append(out, stats)
	}
	return out, nil
}

func (m *mockRecipeStore) IncrementLikes(_ context.Context, id int64) (int64, error) {
	if m.failWith != nil {
		return 0, m.failWith
	}
	r, ok := m.recipes[id]
	if !ok {
		return 0, storage.ErrRecipeNotFound
	}
	r.Likes++
	return r.Likes, nil
}

func (m *mockRecipeStore) InsertReview(_ context.Context, req record.CreateReviewRequest) (*record.Review, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	m.nextID++
	v := record.Review{
		ID:        m.nextID,
		RecipeID:  req.RecipeID,
		Username:  req.Username,
		Rating:    req.Rating,
		Text:      req.Text,
		CreatedAt: time.Now(),
	}
	m.reviews = append(m.reviews, v)
	return &v, nil
}

func (m *mockRecipeStore) ListReviews(_ context.Context, recipeID int64) ([]record.Review, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	var out []record.Review
	for _, v := range m.reviews {
		if recipeID == 0 || v.RecipeID == recipeID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *mockRecipeStore) RatingCounts(_ context.Context) (record.RatingHistogram, error) {
	if m.failWith != nil {
		return record.RatingHistogram{}, m.failWith
	}
	var hist record.RatingHistogram
	for _, v := range m.reviews {
		if v.Rating >= 1 && v.Rating <= 5 {
			hist[v.Rating-1]++
		}
	}
	return hist, nil
}

func setupTestServer(store storage.RecipeStore) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(logger, service.NewFeed(store, logger), nil)
}

func postJSON(t *testing.T, server http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

func getJSON(t *testing.T, server http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

// --- CreateRecipe ---

func TestCreateRecipe_Success(t *testing.T) {
	server := setupTestServer(newMockRecipeStore())

	w := postJSON(t, server, "/v1/recipes", map[string]any{
		"title":        "Soup",
		"ingredients":  "water\nvegetables",
		"instructions": "Boil.",
		"createdBy":    "alice",
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d\nbody: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var resp record.Recipe
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID == 0 {
		t.Error("expected assigned id")
	}
	if resp.Title != "Soup" {
		t.Errorf("Title: got %q", resp.Title)
	}
	if resp.Likes != 0 {
		t.Errorf("Likes: got %d, want 0", resp.Likes)
	}
}

func TestCreateRecipe_MissingTitle(t *testing.T) {
	store := newMockRecipeStore()
	server := setupTestServer(store)

	w := postJSON(t, server, "/v1/recipes", map[string]any{
		"ingredients":  "water",
		"instructions": "Boil.",
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d\nbody: %s", w.Code, http.StatusBadRequest, w.Body.String())
	}

	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["error"] == "" {
		t.Error("expected error message in body")
	}
	if len(store.recipes) != 0 {
		t.Error("nothing may persist on validation failure")
	}
}

func TestCreateRecipe_StorageFailure_Returns500Generic(t *testing.T) {
	store := newMockRecipeStore()
	store.failWith = errors.New("pq: connection reset by peer")
	server := setupTestServer(store)

	w := postJSON(t, server, "/v1/recipes", map[string]any{
		"title":        "Soup",
		"ingredients":  "water",
		"instructions": "Boil.",
	})

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want %d", w.Code, http.StatusInternalServerError)
	}
	if bytes.Contains(w.Body.Bytes(), []byte("connection reset")) {
		t.Error("internal error detail leaked across the API boundary")
	}
}

// --- Like / reviews end-to-end scenarios ---

func TestLikeFlow(t *testing.T) {
	server := setupTestServer(newMockRecipeStore())

	w := postJSON(t, server, "/v1/recipes", map[string]any{
		"title":        "Soup",
		"ingredients":  "water",
		"instructions": "Boil.",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status: got %d\nbody: %s", w.Code, w.Body.String())
	}
	var created record.Recipe
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID != 1 || created.Likes != 0 {
		t.Fatalf("created: id=%d likes=%d, want id=1 likes=0", created.ID, created.Likes)
	}

	for want := int64(1); want <= 2; want++ {
		w := postJSON(t, server, "/v1/recipes/1/like", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("like status: got %d\nbody: %s", w.Code, w.Body.String())
		}
		var resp struct {
			Likes int64 `json:"likes"`
		}
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Likes != want {
			t.Errorf("likes: got %d, want %d", resp.Likes, want)
		}
	}

	w = getJSON(t, server, "/v1/recipes")
	if w.Code != http.StatusOK {
		t.Fatalf("list status: got %d", w.Code)
	}
	var recipes []record.RecipeWithStats
	if err := json.NewDecoder(w.Body).Decode(&recipes); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(recipes) != 1 {
		t.Fatalf("len: got %d, want 1", len(recipes))
	}
	if recipes[0].ID != 1 || recipes[0].Title != "Soup" || recipes[0].Likes != 2 {
		t.Errorf("listed: %+v, want id=1 title=Soup likes=2", recipes[0])
	}
}

func TestLikeRecipe_UnknownID_Returns404(t *testing.T) {
	server := setupTestServer(newMockRecipeStore())

	w := postJSON(t, server, "/v1/recipes/999/like", nil)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d\nbody: %s", w.Code, http.StatusNotFound, w.Body.String())
	}
	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["error"] == "" {
		t.Error("expected error message in body")
	}
}

func TestCreateReview_Success(t *testing.T) {
	store := newMockRecipeStore()
	server := setupTestServer(store)

	postJSON(t, server, "/v1/recipes", map[string]any{
		"title":        "Soup",
		"ingredients":  "water",
		"instructions": "Boil.",
	})

	w := postJSON(t, server, "/v1/recipes/1/reviews", map[string]any{
		"username": "bob",
		"rating":   5,
		"text":     "Great.",
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d\nbody: %s", w.Code, http.StatusCreated, w.Body.String())
	}
	var resp record.Review
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID == 0 || resp.RecipeID != 1 || resp.Rating != 5 {
		t.Errorf("review: %+v", resp)
	}
}

func TestCreateReview_RatingOutOfRange_Returns400(t *testing.T) {
	store := newMockRecipeStore()
	server := setupTestServer(store)

	postJSON(t, server, "/v1/recipes", map[string]any{
		"title":        "Soup",
		"ingredients":  "water",
		"instructions": "Boil.",
	})

	for _, rating := range []int{0, 6} {
		w := postJSON(t, server, "/v1/recipes/1/reviews", map[string]any{
			"rating": rating,
		})
		if w.Code != http.StatusBadRequest {
			t.Errorf("rating %d: status got %d, want %d", rating, w.Code, http.StatusBadRequest)
		}
	}
	if len(store.reviews) != 0 {
		t.Error("rejected reviews must not persist")
	}
}

func TestCreateReview_UnknownRecipe_Returns404(t *testing.T) {
	server := setupTestServer(newMockRecipeStore())

	w := postJSON(t, server, "/v1/recipes/999/reviews", map[string]any{
		"rating": 4,
	})

	if w.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d\nbody: %s", w.Code, http.StatusNotFound, w.Body.String())
	}
}

// --- List endpoints ---

func TestListRecipes_EmptyFeed_ReturnsEmptyArray(t *testing.T) {
	server := setupTestServer(newMockRecipeStore())

	w := getJSON(t, server, "/v1/recipes")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	if got := bytes.TrimSpace(w.Body.Bytes()); string(got) != "[]" {
		t.Errorf("body: got %s, want []", got)
	}
}

func TestListReviews_FiltersByRecipe(t *testing.T) {
	store := newMockRecipeStore()
	server := setupTestServer(store)

	postJSON(t, server, "/v1/recipes", map[string]any{
		"title": "A", "ingredients": "x", "instructions": "y",
	})
	postJSON(t, server, "/v1/recipes", map[string]any{
		"title": "B", "ingredients": "x", "instructions": "y",
	})
	postJSON(t, server, "/v1/recipes/1/reviews", map[string]any{"rating": 5})
	postJSON(t, server, "/v1/recipes/1/reviews", map[string]any{"rating": 3})
	postJSON(t, server, "/v1/recipes/2/reviews", map[string]any{"rating": 4})

	w := getJSON(t, server, "/v1/reviews?recipe_id=1")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var reviews []record.Review
	if err := json.NewDecoder(w.Body).Decode(&reviews); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(reviews) != 2 {
		t.Errorf("len: got %d, want 2", len(reviews))
	}
}

func TestRatingsSummary_AllBuckets(t *testing.T) {
	store := newMockRecipeStore()
	server := setupTestServer(store)

	postJSON(t, server, "/v1/recipes", map[string]any{
		"title": "Soup", "ingredients": "water", "instructions": "Boil.",
	})
	for _, rating := range []int{5, 5, 3, 1} {
		postJSON(t, server, "/v1/recipes/1/reviews", map[string]any{"rating": rating})
	}

	w := getJSON(t, server, "/v1/ratings-summary")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var resp map[string]int64
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	want := map[string]int64{"1": 1, "2": 0, "3": 1, "4": 0, "5": 2}
	for bucket, count := range want {
		if resp[bucket] != count {
			t.Errorf("bucket %s: got %d, want %d", bucket, resp[bucket], count)
		}
	}
}
