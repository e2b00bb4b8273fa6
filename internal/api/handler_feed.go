package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
	"github.com/platefeed/platefeed/internal/record"
	"github.com/platefeed/platefeed/internal/service"
)

// --- Huma input/output types ---

// CreateRecipeBody carries every field as optional at the schema level;
// presence checks live in the service so missing fields map to 400
// rather than a schema rejection.
type CreateRecipeBody struct {
	Title        string `json:"title,omitempty" doc:"Recipe title"`
	Category     string `json:"category,omitempty" doc:"Free-text category tag"`
	Ingredients  string `json:"ingredients,omitempty" doc:"Ingredient list, one per line"`
	Instructions string `json:"instructions,omitempty" doc:"Preparation steps"`
	ImageURL     string `json:"imageUrl,omitempty" doc:"Optional image URL"`
	CreatedBy    string `json:"createdBy,omitempty" doc:"Submitter name, defaults to Anonymous"`
}

type CreateRecipeInput struct {
	Body CreateRecipeBody
}

type CreateRecipeOutput struct {
	Body record.Recipe
}

type ListRecipesOutput struct {
	Body []record.RecipeWithStats
}

type LikeRecipeInput struct {
	ID int64 `path:"id" doc:"Recipe ID"`
}

type LikesResponse struct {
	Likes int64 `json:"likes" doc:"Like count after the increment"`
}

type LikeRecipeOutput struct {
	Body LikesResponse
}

type CreateReviewBody struct {
	Username string `json:"username,omitempty" doc:"Reviewer name, defaults to Anonymous"`
	Rating   int    `json:"rating,omitempty" doc:"Rating from 1 to 5"`
	Text     string `json:"text,omitempty" doc:"Optional review text"`
}

type CreateReviewInput struct {
	ID   int64 `path:"id" doc:"Recipe ID"`
	Body CreateReviewBody
}

type CreateReviewOutput struct {
	Body record.Review
}

type ListReviewsInput struct {
	RecipeID int64 `query:"recipe_id" required:"false" doc:"Limit to one recipe; 0 or absent means all"`
}

type ListReviewsOutput struct {
	Body []record.Review
}

type RatingsSummaryOutput struct {
	Body map[string]int64
}

// --- Handler ---

type FeedHandler struct {
	feed   *service.Feed
	logger *slog.Logger
}

func NewFeedHandler(feed *service.Feed, logger *slog.Logger) *FeedHandler {
	return &FeedHandler{feed: feed, logger: logger}
}

func registerFeedRoutes(api huma.API, h *FeedHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-recipes",
		Method:      http.MethodGet,
		Path:        "/v1/recipes",
		Summary:     "List all recipes newest-first",
		Tags:        []string{"recipes"},
	}, h.ListRecipes)

	huma.Register(api, huma.Operation{
		OperationID:   "create-recipe",
		Method:        http.MethodPost,
		Path:          "/v1/recipes",
		Summary:       "Create a recipe",
		Tags:          []string{"recipes"},
		DefaultStatus: http.StatusCreated,
	}, h.CreateRecipe)

	huma.Register(api, huma.Operation{
		OperationID: "like-recipe",
		Method:      http.MethodPost,
		Path:        "/v1/recipes/{id}/like",
		Summary:     "Add one like to a recipe",
		Tags:        []string{"recipes"},
	}, h.LikeRecipe)

	huma.Register(api, huma.Operation{
		OperationID:   "create-review",
		Method:        http.MethodPost,
		Path:          "/v1/recipes/{id}/reviews",
		Summary:       "Review a recipe",
		Tags:          []string{"reviews"},
		DefaultStatus: http.StatusCreated,
	}, h.CreateReview)

	huma.Register(api, huma.Operation{
		OperationID: "list-reviews",
		Method:      http.MethodGet,
		Path:        "/v1/reviews",
		Summary:     "List reviews",
		Tags:        []string{"reviews"},
	}, h.ListReviews)

	huma.Register(api, huma.Operation{
		OperationID: "ratings-summary",
		Method:      http.MethodGet,
		Path:        "/v1/ratings-summary",
		Summary:     "Review counts per rating bucket",
		Tags:        []string{"reviews"},
	}, h.RatingsSummary)
}

func (h *FeedHandler) ListRecipes(ctx context.Context, _ *struct{}) (*ListRecipesOutput, error) {
	recipes, err := h.feed.ListRecipes(ctx)
	if err != nil {
		return nil, h.translate("list recipes", err)
	}
	if recipes == nil {
		recipes = []record.RecipeWithStats{}
	}
	return &ListRecipesOutput{Body: recipes}, nil
}

func (h *FeedHandler) CreateRecipe(ctx context.Context, input *CreateRecipeInput) (*CreateRecipeOutput, error) {
	r, err := h.feed.CreateRecipe(ctx, record.CreateRecipeRequest{
		Title:        input.Body.Title,
		Category:     input.Body.Category,
		Ingredients:  input.Body.Ingredients,
		Instructions: input.Body.Instructions,
		ImageURL:     input.Body.ImageURL,
		CreatedBy:    input.Body.CreatedBy,
	})
	if err != nil {
		return nil, h.translate("create recipe", err)
	}
	return &CreateRecipeOutput{Body: *r}, nil
}

func (h *FeedHandler) LikeRecipe(ctx context.Context, input *LikeRecipeInput) (*LikeRecipeOutput, error) {
	likes, err := h.feed.LikeRecipe(ctx, input.ID)
	if err != nil {
		return nil, h.translate("like recipe", err)
	}
	return &LikeRecipeOutput{Body: LikesResponse{Likes: likes}}, nil
}

func (h *FeedHandler) CreateReview(ctx context.Context, input *CreateReviewInput) (*CreateReviewOutput, error) {
	v, err := h.feed.AddReview(ctx, record.CreateReviewRequest{
		RecipeID: input.ID,
		Username: input.Body.Username,
		Rating:   input.Body.Rating,
		Text:     input.Body.Text,
	})
	if err != nil {
		return nil, h.translate("create review", err)
	}
	return &CreateReviewOutput{Body: *v}, nil
}

func (h *FeedHandler) ListReviews(ctx context.Context, input *ListReviewsInput) (*ListReviewsOutput, error) {
	reviews, err := h.feed.ListReviews(ctx, input.RecipeID)
	if err != nil {
		return nil, h.translate("list reviews", err)
	}
	if reviews == nil {
		reviews = []record.Review{}
	}
	return &ListReviewsOutput{Body: reviews}, nil
}

func (h *FeedHandler) RatingsSummary(ctx context.Context, _ *struct{}) (*RatingsSummaryOutput, error) {
	hist, err := h.feed.RatingsSummary(ctx)
	if err != nil {
		return nil, h.translate("ratings summary", err)
	}
	body := make(map[string]int64, 5)
	for rating := 1; rating <= 5; rating++ {
		body[strconv.Itoa(rating)] = hist.Bucket(rating)
	}
	return &RatingsSummaryOutput{Body: body}, nil
}

// translate is the single place domain errors become status codes.
func (h *FeedHandler) translate(op string, err error) error {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return huma.Error400BadRequest(verr.Error())
	}
	var nferr *service.NotFoundError
	if errors.As(err, &nferr) {
		return huma.Error404NotFound(nferr.Error())
	}
	h.logger.Error("request failed", "op", op, "error", err)
	return huma.Error500InternalServerError("failed to " + op)
}
