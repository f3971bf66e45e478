package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/Abdellatifemara/Forma-sub000/internal/catalog"
	"github.com/Abdellatifemara/Forma-sub000/internal/logger"
	"github.com/Abdellatifemara/Forma-sub000/internal/profile"
	"github.com/Abdellatifemara/Forma-sub000/internal/quota"
)

const (
	searchLimit      = 5
	broadSearchLimit = 3
	maxHistoryTurns  = 8
)

// Config tunes pipeline behavior.
type Config struct {
	// CountCurated makes the mid-tier curated fallback consume daily
	// quota. Off by default: curated answers are DB reads, not model
	// calls.
	CountCurated bool

	// Seed fixes the chit-chat pool picks. Zero means time-seeded.
	Seed int64
}

// Pipeline resolves a chat message through an ordered sequence of
// increasingly expensive strategies, returning the first stage that
// produces an answer. Cheap stages run first so chit-chat and catalog
// questions never consume quota or reach the model.
type Pipeline struct {
	search       Searcher
	loader       ContextLoader
	gate         Gate
	generator    Generator
	countCurated bool

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a resolution pipeline.
func New(search Searcher, loader ContextLoader, gate Gate, generator Generator, cfg Config) *Pipeline {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Pipeline{
		search:       search,
		loader:       loader,
		gate:         gate,
		generator:    generator,
		countCurated: cfg.CountCurated,
		rng:          rand.New(rand.NewSource(seed)),
	}
}

func (p *Pipeline) pick(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.Intn(n)
}

// Resolve runs the stages in order and returns the first answer. The
// only error cases are malformed input, a failed context load, and a
// quota store failure; search failures fall through and model failures
// degrade to an apologetic response.
func (p *Pipeline) Resolve(ctx context.Context, req Request) (*Response, error) {
	trimmed := strings.TrimSpace(req.Message)
	if trimmed == "" {
		return nil, ErrEmptyMessage
	}
	arabic := req.Language == "ar"

	// stage 1: local pattern match, no quota, no storage
	if resp := localMatch(trimmed, arabic, p.pick); resp != nil {
		logger.Debug("local match", "user_id", req.UserID)
		return resp, nil
	}

	uc, err := p.loader.Load(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user context: %w", err)
	}

	// stage 2: structured intent extraction, food before exercise
	if query := strings.TrimSpace(extractFoodQuery(trimmed)); len([]rune(query)) >= 2 {
		foods, err := p.search.SearchFoods(ctx, query, searchLimit)
		if err != nil {
			logger.Warn("food search failed", "user_id", req.UserID, "error", err)
		} else if len(foods) > 0 {
			return formatFoodResponse(foods, query, arabic), nil
		}
	}

	if query := strings.TrimSpace(extractExerciseQuery(trimmed)); len([]rune(query)) >= 2 {
		exercises, err := p.search.SearchExercises(ctx, query, searchLimit)
		if err != nil {
			logger.Warn("exercise search failed", "user_id", req.UserID, "error", err)
		} else if len(exercises) > 0 {
			return formatExerciseResponse(exercises, arabic), nil
		}
	}

	// stage 3: faq keyword match
	if keywords := faqKeywords(trimmed); len(keywords) > 0 {
		matches, err := p.search.SearchFAQs(ctx, keywords, arabic)
		if err != nil {
			logger.Warn("faq search failed", "user_id", req.UserID, "error", err)
		} else if len(matches) > 0 {
			best, related := rankFAQs(matches, keywords)
			return formatFAQResponse(best, related, arabic), nil
		}
	}

	// stage 4: supplement and program intents
	if supplementPattern.MatchString(trimmed) {
		supplements, err := p.search.SearchSupplements(ctx, trimmed, searchLimit)
		if err != nil {
			logger.Warn("supplement search failed", "user_id", req.UserID, "error", err)
		} else if len(supplements) > 0 {
			return formatSupplementResponse(supplements, arabic), nil
		}
	}

	if programPattern.MatchString(trimmed) && uc.Tier != quota.TierPremiumPlus {
		programs, err := p.search.ListPrograms(ctx, searchLimit)
		if err != nil {
			logger.Warn("program search failed", "user_id", req.UserID, "error", err)
		} else {
			// answers even with an empty catalog: the response then
			// points at the customized-plan upgrade
			return formatProgramResponse(programs, arabic), nil
		}
	}

	// stage 5: tier gate, free and not counted
	if uc.Tier == quota.TierFree {
		return tierGateResponse(arabic), nil
	}

	// stage 6: curated fallback for the mid tier
	if uc.Tier == quota.TierPremium {
		if p.countCurated {
			usage, err := p.gate.CheckAndIncrement(ctx, req.UserID, uc.Tier)
			if errors.Is(err, quota.ErrQuotaExceeded) {
				return quotaExceededResponse(usage.Limit, arabic), nil
			}
			if err != nil {
				return nil, err
			}
			resp := p.curated(ctx, trimmed, uc, arabic)
			attachUsage(resp, usage)
			return resp, nil
		}
		return p.curated(ctx, trimmed, uc, arabic), nil
	}

	// stage 7: model call, top tier only
	usage, err := p.gate.CheckAndIncrement(ctx, req.UserID, uc.Tier)
	if errors.Is(err, quota.ErrQuotaExceeded) {
		return quotaExceededResponse(usage.Limit, arabic), nil
	}
	if err != nil {
		return nil, err
	}

	systemPrompt := profile.BuildSystemPrompt(uc, arabic)
	history := req.History
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}

	text, err := p.generator.Generate(ctx, systemPrompt, history, trimmed)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.ErrorErr(err, "model call failed", "user_id", req.UserID)
		resp := modelFailureResponse(arabic)
		attachUsage(resp, usage)
		return resp, nil
	}

	resp := &Response{Text: strings.TrimSpace(text), Source: SourceModel}
	attachUsage(resp, usage)
	return resp, nil
}

// curated runs the relaxed second search pass for users without model
// access, falling back to a generic answer built from their profile.
func (p *Pipeline) curated(ctx context.Context, query string, uc *profile.UserContext, arabic bool) *Response {
	if words := splitWords(query, 2); len(words) > 0 {
		foods, err := p.search.BroadFoodSearch(ctx, words, broadSearchLimit)
		if err != nil {
			logger.Warn("broad food search failed", "error", err)
		} else if len(foods) > 0 {
			resp := formatFoodResponse(foods, words[0], arabic)
			resp.Source = SourceCurated
			return resp
		}
	}

	if words := splitWords(query, 3); len(words) > 0 {
		exercises, err := p.search.BroadExerciseSearch(ctx, words, broadSearchLimit)
		if err != nil {
			logger.Warn("broad exercise search failed", "error", err)
		} else if len(exercises) > 0 {
			return formatBroadExerciseResponse(exercises, arabic)
		}
	}

	return genericCuratedResponse(uc, arabic)
}

// faqKeywords tokenizes the message into lowercased words longer than
// three characters.
func faqKeywords(text string) []string {
	var keywords []string
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if len([]rune(word)) > 3 {
			keywords = append(keywords, word)
		}
	}
	return keywords
}

// rankFAQs picks the match whose question hits the most keywords
// (earliest wins ties) and up to two related questions.
func rankFAQs(matches []catalog.FAQMatch, keywords []string) (catalog.FAQMatch, []catalog.FAQMatch) {
	bestIdx, bestHits := 0, -1
	for i, m := range matches {
		q := strings.ToLower(m.Question)
		hits := 0
		for _, kw := range keywords {
			if strings.Contains(q, kw) {
				hits++
			}
		}
		if hits > bestHits {
			bestIdx, bestHits = i, hits
		}
	}

	var related []catalog.FAQMatch
	for i, m := range matches {
		if i != bestIdx && len(related) < 2 {
			related = append(related, m)
		}
	}
	return matches[bestIdx], related
}

// splitWords extracts up to five lowercased words longer than minLen.
func splitWords(text string, minLen int) []string {
	var words []string
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if len([]rune(word)) > minLen {
			words = append(words, word)
			if len(words) == 5 {
				break
			}
		}
	}
	return words
}

func attachUsage(resp *Response, usage quota.Usage) {
	if usage.Unlimited {
		return
	}
	remaining := usage.Remaining
	limit := usage.Limit
	resp.RemainingQuota = &remaining
	resp.DailyLimit = &limit
}
