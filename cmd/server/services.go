package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Abdellatifemara/Forma-sub000/internal/catalog"
	"github.com/Abdellatifemara/Forma-sub000/internal/config"
	"github.com/Abdellatifemara/Forma-sub000/internal/history"
	"github.com/Abdellatifemara/Forma-sub000/internal/llm"
	"github.com/Abdellatifemara/Forma-sub000/internal/pipeline"
	"github.com/Abdellatifemara/Forma-sub000/internal/profile"
	"github.com/Abdellatifemara/Forma-sub000/internal/quota"
)

const (
	modelMaxTokens   = 1500
	modelTemperature = 0.7
)

// creates and wires the pipeline with its stores and the model client
func InitializeServices(ctx context.Context, cfg *config.Config, db *pgxpool.Pool) (*Services, error) {
	quotaStore := quota.NewPostgresStore(db)
	if err := quotaStore.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize quota store: %w", err)
	}
	gate := quota.NewGate(quotaStore)

	historyRepo := history.NewRepository(db)
	if err := historyRepo.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize chat history: %w", err)
	}

	gemini := llm.NewGeminiClient(llm.GeminiConfig{
		APIKey: cfg.GeminiKey,
		Model:  cfg.GeminiModel,
	})

	pipe := pipeline.New(
		catalog.NewClient(db),
		profile.NewAssembler(db),
		gate,
		&modelAdapter{client: gemini},
		pipeline.Config{},
	)

	return &Services{
		Pipeline: pipe,
		Gate:     gate,
		History:  historyRepo,
	}, nil
}

// adapts the Gemini client to the pipeline's generator contract,
// mapping conversation roles onto the Gemini wire format
type modelAdapter struct {
	client *llm.GeminiClient
}

func (a *modelAdapter) Generate(ctx context.Context, systemPrompt string, turns []pipeline.Turn, message string) (string, error) {
	messages := make([]llm.Message, 0, len(turns)+1)
	for _, t := range turns {
		role := "user"
		if t.Role == "assistant" {
			role = "model"
		}
		messages = append(messages, llm.Message{Role: role, Content: t.Content})
	}
	messages = append(messages, llm.Message{Role: "user", Content: message})

	return a.client.Generate(ctx, llm.GenerateRequest{
		SystemPrompt: systemPrompt,
		Messages:     messages,
		MaxTokens:    modelMaxTokens,
		Temperature:  modelTemperature,
	})
}
