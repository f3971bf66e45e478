package pipeline

import (
	"context"
	"errors"

	"github.com/Abdellatifemara/Forma-sub000/internal/catalog"
	"github.com/Abdellatifemara/Forma-sub000/internal/profile"
	"github.com/Abdellatifemara/Forma-sub000/internal/quota"
)

// ErrEmptyMessage is returned for empty or whitespace-only input.
// It is the caller's mistake, not a pipeline failure.
var ErrEmptyMessage = errors.New("message is empty")

// Source identifies which stage produced a response.
type Source string

const (
	SourceLocal              Source = "local"
	SourceStructuredFood     Source = "structured_food"
	SourceStructuredExercise Source = "structured_exercise"
	SourceStructuredFAQ      Source = "structured_faq"
	SourceStructuredProgram  Source = "structured_program"
	SourceCurated            Source = "curated"
	SourceModel              Source = "model"
	SourceQuotaGate          Source = "quota_gate"
)

// Turn is one prior exchange in the conversation.
type Turn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Request is one inbound chat message.
type Request struct {
	UserID   string
	Message  string
	Language string // "en" or "ar"
	History  []Turn
}

// StructuredData carries the typed payload behind a structured
// response, so clients can render cards instead of parsing text.
type StructuredData struct {
	Foods     []catalog.Food     `json:"foods,omitempty"`
	Exercises []catalog.Exercise `json:"exercises,omitempty"`
	FAQs      []catalog.FAQMatch `json:"faqs,omitempty"`
	Programs  []catalog.Program  `json:"programs,omitempty"`
}

// Response is the pipeline's answer. Source is always set; the quota
// fields are present only when the request consumed allowance.
type Response struct {
	Text           string          `json:"response"`
	Source         Source          `json:"source"`
	Data           *StructuredData `json:"data,omitempty"`
	RemainingQuota *int            `json:"remaining_queries,omitempty"`
	DailyLimit     *int            `json:"daily_limit,omitempty"`
}

// Searcher is the structured catalog lookup surface the pipeline
// resolves against.
type Searcher interface {
	SearchFoods(ctx context.Context, query string, limit int) ([]catalog.Food, error)
	SearchExercises(ctx context.Context, query string, limit int) ([]catalog.Exercise, error)
	SearchFAQs(ctx context.Context, keywords []string, arabic bool) ([]catalog.FAQMatch, error)
	SearchSupplements(ctx context.Context, query string, limit int) ([]catalog.Food, error)
	ListPrograms(ctx context.Context, limit int) ([]catalog.Program, error)
	BroadFoodSearch(ctx context.Context, words []string, limit int) ([]catalog.Food, error)
	BroadExerciseSearch(ctx context.Context, words []string, limit int) ([]catalog.Exercise, error)
}

// ContextLoader builds the per-request user snapshot.
type ContextLoader interface {
	Load(ctx context.Context, userID string) (*profile.UserContext, error)
}

// Gate meters requests against the user's daily allowance.
type Gate interface {
	CheckAndIncrement(ctx context.Context, userID string, tier quota.Tier) (quota.Usage, error)
}

// Generator produces model text for the top tier.
type Generator interface {
	Generate(ctx context.Context, systemPrompt string, history []Turn, message string) (string, error)
}
