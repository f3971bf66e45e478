package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abdellatifemara/Forma-sub000/internal/catalog"
	"github.com/Abdellatifemara/Forma-sub000/internal/profile"
	"github.com/Abdellatifemara/Forma-sub000/internal/quota"
)

// fakeSearcher answers from canned slices and counts invocations.
type fakeSearcher struct {
	foods       []catalog.Food
	exercises   []catalog.Exercise
	faqs        []catalog.FAQMatch
	supplements []catalog.Food
	programs    []catalog.Program
	broadFoods  []catalog.Food
	broadExs    []catalog.Exercise
	err         error

	calls map[string]int
	gotFoodQuery string
}

func newFakeSearcher() *fakeSearcher {
	return &fakeSearcher{calls: make(map[string]int)}
}

func (f *fakeSearcher) SearchFoods(_ context.Context, query string, _ int) ([]catalog.Food, error) {
	f.calls["foods"]++
	f.gotFoodQuery = query
	return f.foods, f.err
}

func (f *fakeSearcher) SearchExercises(_ context.Context, _ string, _ int) ([]catalog.Exercise, error) {
	f.calls["exercises"]++
	return f.exercises, f.err
}

func (f *fakeSearcher) SearchFAQs(_ context.Context, _ []string, _ bool) ([]catalog.FAQMatch, error) {
	f.calls["faqs"]++
	return f.faqs, f.err
}

func (f *fakeSearcher) SearchSupplements(_ context.Context, _ string, _ int) ([]catalog.Food, error) {
	f.calls["supplements"]++
	return f.supplements, f.err
}

func (f *fakeSearcher) ListPrograms(_ context.Context, _ int) ([]catalog.Program, error) {
	f.calls["programs"]++
	return f.programs, f.err
}

func (f *fakeSearcher) BroadFoodSearch(_ context.Context, _ []string, _ int) ([]catalog.Food, error) {
	f.calls["broadFoods"]++
	return f.broadFoods, f.err
}

func (f *fakeSearcher) BroadExerciseSearch(_ context.Context, _ []string, _ int) ([]catalog.Exercise, error) {
	f.calls["broadExs"]++
	return f.broadExs, f.err
}

func (f *fakeSearcher) totalCalls() int {
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

type fakeLoader struct {
	ctx   *profile.UserContext
	err   error
	calls int
}

func (f *fakeLoader) Load(_ context.Context, _ string) (*profile.UserContext, error) {
	f.calls++
	return f.ctx, f.err
}

type fakeGate struct {
	usage quota.Usage
	err   error
	calls int
}

func (f *fakeGate) CheckAndIncrement(_ context.Context, _ string, _ quota.Tier) (quota.Usage, error) {
	f.calls++
	return f.usage, f.err
}

type fakeGenerator struct {
	text      string
	err       error
	calls     int
	gotPrompt string
	gotTurns  []Turn
}

func (f *fakeGenerator) Generate(_ context.Context, systemPrompt string, history []Turn, _ string) (string, error) {
	f.calls++
	f.gotPrompt = systemPrompt
	f.gotTurns = history
	return f.text, f.err
}

func userCtx(tier quota.Tier) *profile.UserContext {
	return &profile.UserContext{
		FirstName:    "Omar",
		Language:     "en",
		FitnessGoal:  "MUSCLE_GAIN",
		FitnessLevel: "INTERMEDIATE",
		Tier:         tier,
	}
}

func newTestPipeline(s *fakeSearcher, l *fakeLoader, g *fakeGate, gen *fakeGenerator, cfg Config) *Pipeline {
	if cfg.Seed == 0 {
		cfg.Seed = 1
	}
	return New(s, l, g, gen, cfg)
}

func TestResolveEmptyMessage(t *testing.T) {
	p := newTestPipeline(newFakeSearcher(), &fakeLoader{}, &fakeGate{}, &fakeGenerator{}, Config{})

	for _, msg := range []string{"", "   ", "\n\t "} {
		_, err := p.Resolve(context.Background(), Request{UserID: "u1", Message: msg})
		assert.ErrorIs(t, err, ErrEmptyMessage)
	}
}

func TestResolveGreetingNeverTouchesQuotaOrStorage(t *testing.T) {
	search := newFakeSearcher()
	loader := &fakeLoader{ctx: userCtx(quota.TierFree)}
	gate := &fakeGate{}
	p := newTestPipeline(search, loader, gate, &fakeGenerator{}, Config{})

	for _, msg := range []string{"hi", "HI!", "  hey  ", "hello", "thanks", "bye", "help", "ازيك"} {
		resp, err := p.Resolve(context.Background(), Request{UserID: "u1", Message: msg, Language: "en"})
		require.NoError(t, err, "message %q", msg)
		assert.Equal(t, SourceLocal, resp.Source, "message %q", msg)
		assert.NotEmpty(t, resp.Text)
	}

	assert.Zero(t, search.totalCalls(), "search must not run for local matches")
	assert.Zero(t, gate.calls, "quota must not run for local matches")
	assert.Zero(t, loader.calls, "context must not load for local matches")
}

func TestResolveGreetingDrawsFromPool(t *testing.T) {
	p := newTestPipeline(newFakeSearcher(), &fakeLoader{}, &fakeGate{}, &fakeGenerator{}, Config{})

	resp, err := p.Resolve(context.Background(), Request{UserID: "u1", Message: "hi"})
	require.NoError(t, err)
	assert.Contains(t, greetingResponsesEn, resp.Text)

	resp, err = p.Resolve(context.Background(), Request{UserID: "u1", Message: "سلام", Language: "ar"})
	require.NoError(t, err)
	assert.Contains(t, greetingResponsesAr, resp.Text)
}

func TestResolveFoodSearch(t *testing.T) {
	search := newFakeSearcher()
	search.foods = []catalog.Food{{
		NameEn: "Boiled Eggs", NameAr: "بيض مسلوق",
		Calories: 155, ProteinG: 13, CarbsG: 1.1, FatG: 11,
		ServingSizeG: 100, ServingUnit: "g",
	}}
	gate := &fakeGate{}
	p := newTestPipeline(search, &fakeLoader{ctx: userCtx(quota.TierFree)}, gate, &fakeGenerator{}, Config{})

	resp, err := p.Resolve(context.Background(), Request{UserID: "u1", Message: "calories in 2 eggs"})

	require.NoError(t, err)
	assert.Equal(t, SourceStructuredFood, resp.Source)
	assert.Equal(t, "2 eggs", search.gotFoodQuery)
	assert.Contains(t, resp.Text, "Boiled Eggs")
	assert.Contains(t, resp.Text, "155 cal")
	assert.Contains(t, resp.Text, "13g protein")
	require.NotNil(t, resp.Data)
	assert.Len(t, resp.Data.Foods, 1)
	assert.Zero(t, gate.calls, "structured stages are free")
}

func TestResolveFoodSearchEmptyResultFallsThrough(t *testing.T) {
	search := newFakeSearcher()
	loader := &fakeLoader{ctx: userCtx(quota.TierFree)}
	p := newTestPipeline(search, loader, &fakeGate{}, &fakeGenerator{}, Config{})

	resp, err := p.Resolve(context.Background(), Request{UserID: "u1", Message: "calories in dragonfruit"})

	require.NoError(t, err)
	assert.Equal(t, 1, search.calls["foods"], "food search should have been tried")
	assert.Equal(t, SourceQuotaGate, resp.Source, "free tier should land on the gate")
}

func TestResolveExerciseSearch(t *testing.T) {
	search := newFakeSearcher()
	search.exercises = []catalog.Exercise{{
		NameEn: "Barbell Squat", NameAr: "سكوات",
		PrimaryMuscle: "QUADRICEPS", Difficulty: "INTERMEDIATE",
		DefaultSets: 3, DefaultReps: "8-12",
		InstructionsEn: []string{"Set the bar on your traps", "Brace and descend"},
		TipsEn:         []string{"Keep your heels down"},
	}}
	p := newTestPipeline(search, &fakeLoader{ctx: userCtx(quota.TierFree)}, &fakeGate{}, &fakeGenerator{}, Config{})

	resp, err := p.Resolve(context.Background(), Request{UserID: "u1", Message: "how to barbell squat"})

	require.NoError(t, err)
	assert.Equal(t, SourceStructuredExercise, resp.Source)
	assert.Contains(t, resp.Text, "Barbell Squat")
	assert.Contains(t, resp.Text, "quadriceps")
	assert.Contains(t, resp.Text, "3 sets × 8-12 reps")
	assert.Contains(t, resp.Text, "Keep your heels down")
}

func TestResolveExerciseListForMultipleMatches(t *testing.T) {
	search := newFakeSearcher()
	search.exercises = []catalog.Exercise{
		{NameEn: "Front Squat", PrimaryMuscle: "QUADRICEPS", Difficulty: "ADVANCED"},
		{NameEn: "Goblet Squat", PrimaryMuscle: "QUADRICEPS", Difficulty: "BEGINNER"},
	}
	p := newTestPipeline(search, &fakeLoader{ctx: userCtx(quota.TierFree)}, &fakeGate{}, &fakeGenerator{}, Config{})

	resp, err := p.Resolve(context.Background(), Request{UserID: "u1", Message: "show me squat variations"})

	require.NoError(t, err)
	assert.Equal(t, SourceStructuredExercise, resp.Source)
	assert.Contains(t, resp.Text, "Found 2 exercises")
	assert.Contains(t, resp.Text, "Front Squat")
	assert.Contains(t, resp.Text, "Goblet Squat")
}

func TestResolveFAQRanking(t *testing.T) {
	search := newFakeSearcher()
	search.faqs = []catalog.FAQMatch{
		{ExerciseName: "Deadlift", Question: "Should my back stay neutral?", Answer: "Yes, always."},
		{ExerciseName: "Deadlift", Question: "Is a neutral spine required when pulling heavy weight?", Answer: "Keep it neutral."},
		{ExerciseName: "Squat", Question: "How deep should I go?", Answer: "Below parallel if mobility allows."},
	}
	p := newTestPipeline(search, &fakeLoader{ctx: userCtx(quota.TierFree)}, &fakeGate{}, &fakeGenerator{}, Config{})

	resp, err := p.Resolve(context.Background(), Request{UserID: "u1", Message: "neutral spine when pulling heavy weight"})

	require.NoError(t, err)
	assert.Equal(t, SourceStructuredFAQ, resp.Source)
	// the second entry hits the most keywords
	assert.True(t, strings.HasPrefix(resp.Text, "❓ **Is a neutral spine required"))
	assert.Contains(t, resp.Text, "Related questions:")
	assert.Contains(t, resp.Text, "Should my back stay neutral?")
}

func TestResolveSearchErrorFallsThrough(t *testing.T) {
	search := newFakeSearcher()
	search.err = errors.New("connection refused")
	loader := &fakeLoader{ctx: userCtx(quota.TierFree)}
	p := newTestPipeline(search, loader, &fakeGate{}, &fakeGenerator{}, Config{})

	resp, err := p.Resolve(context.Background(), Request{UserID: "u1", Message: "calories in koshari"})

	require.NoError(t, err, "search failures must not surface")
	assert.Equal(t, SourceQuotaGate, resp.Source)
}

func TestResolveSupplements(t *testing.T) {
	search := newFakeSearcher()
	search.supplements = []catalog.Food{{
		NameEn: "Whey Isolate", BrandEn: "ON", Calories: 120, ProteinG: 24,
		ServingSizeG: 30, ServingUnit: "g",
	}}
	p := newTestPipeline(search, &fakeLoader{ctx: userCtx(quota.TierFree)}, &fakeGate{}, &fakeGenerator{}, Config{})

	resp, err := p.Resolve(context.Background(), Request{UserID: "u1", Message: "is whey protein powder worth it"})

	require.NoError(t, err)
	assert.Equal(t, SourceStructuredFood, resp.Source)
	assert.Contains(t, resp.Text, "Whey Isolate")
	assert.Contains(t, resp.Text, "24g protein")
}

func TestResolveProgramsForSubTopTiers(t *testing.T) {
	for _, tier := range []quota.Tier{quota.TierFree, quota.TierPremium} {
		search := newFakeSearcher()
		search.programs = []catalog.Program{
			{NameEn: "Push Pull Legs", DurationWeeks: 8, DescriptionEn: "Classic 6-day split."},
		}
		p := newTestPipeline(search, &fakeLoader{ctx: userCtx(tier)}, &fakeGate{}, &fakeGenerator{}, Config{})

		resp, err := p.Resolve(context.Background(), Request{UserID: "u1", Message: "give me a workout program"})

		require.NoError(t, err, "tier %s", tier)
		assert.Equal(t, SourceStructuredProgram, resp.Source, "tier %s", tier)
		assert.Contains(t, resp.Text, "Push Pull Legs")
		assert.Contains(t, resp.Text, "8 weeks")
	}
}

func TestResolveProgramRequestGoesToModelForTopTier(t *testing.T) {
	search := newFakeSearcher()
	search.programs = []catalog.Program{{NameEn: "Push Pull Legs", DurationWeeks: 8}}
	gate := &fakeGate{usage: quota.Usage{Used: 1, Limit: quota.Unlimited, Remaining: quota.Unlimited, Unlimited: true}}
	gen := &fakeGenerator{text: "Here's a plan built around your goal."}
	p := newTestPipeline(search, &fakeLoader{ctx: userCtx(quota.TierPremiumPlus)}, gate, gen, Config{})

	resp, err := p.Resolve(context.Background(), Request{UserID: "u1", Message: "give me a workout program"})

	require.NoError(t, err)
	assert.Equal(t, SourceModel, resp.Source)
	assert.Zero(t, search.calls["programs"], "top tier skips the preset program stage")
}

func TestResolveFreeTierGate(t *testing.T) {
	search := newFakeSearcher()
	gate := &fakeGate{}
	gen := &fakeGenerator{}
	p := newTestPipeline(search, &fakeLoader{ctx: userCtx(quota.TierFree)}, gate, gen, Config{})

	resp, err := p.Resolve(context.Background(), Request{UserID: "u1", Message: "what should my macros be"})

	require.NoError(t, err)
	assert.Equal(t, SourceQuotaGate, resp.Source)
	assert.Contains(t, resp.Text, "upgrade to Premium")
	assert.Zero(t, gate.calls, "gating messages are free")
	assert.Zero(t, gen.calls)
}

func TestResolvePremiumCuratedBroadSearch(t *testing.T) {
	search := newFakeSearcher()
	search.broadFoods = []catalog.Food{{
		NameEn: "Koshari", Calories: 350, ProteinG: 9, CarbsG: 62, FatG: 7,
		ServingSizeG: 250, ServingUnit: "g",
	}}
	gate := &fakeGate{}
	p := newTestPipeline(search, &fakeLoader{ctx: userCtx(quota.TierPremium)}, gate, &fakeGenerator{}, Config{})

	resp, err := p.Resolve(context.Background(), Request{UserID: "u1", Message: "what should i eat after training"})

	require.NoError(t, err)
	assert.Equal(t, SourceCurated, resp.Source)
	assert.Contains(t, resp.Text, "Koshari")
	assert.Zero(t, gate.calls, "curated answers are not counted by default")
}

func TestResolvePremiumCuratedGeneric(t *testing.T) {
	search := newFakeSearcher()
	gen := &fakeGenerator{}
	p := newTestPipeline(search, &fakeLoader{ctx: userCtx(quota.TierPremium)}, &fakeGate{}, gen, Config{})

	resp, err := p.Resolve(context.Background(), Request{UserID: "u1", Message: "what should my training philosophy be"})

	require.NoError(t, err)
	assert.Equal(t, SourceCurated, resp.Source)
	assert.Contains(t, resp.Text, "Omar")
	assert.Contains(t, resp.Text, "muscle gain")
	assert.Zero(t, gen.calls, "mid tier never reaches the model")
}

func TestResolveCountCuratedConsumesQuota(t *testing.T) {
	search := newFakeSearcher()
	gate := &fakeGate{usage: quota.Usage{Used: 3, Limit: 50, Remaining: 47}}
	p := newTestPipeline(search, &fakeLoader{ctx: userCtx(quota.TierPremium)}, gate, &fakeGenerator{}, Config{CountCurated: true})

	resp, err := p.Resolve(context.Background(), Request{UserID: "u1", Message: "what should my training philosophy be"})

	require.NoError(t, err)
	assert.Equal(t, 1, gate.calls)
	require.NotNil(t, resp.RemainingQuota)
	assert.Equal(t, 47, *resp.RemainingQuota)
	require.NotNil(t, resp.DailyLimit)
	assert.Equal(t, 50, *resp.DailyLimit)
}

func TestResolveCountCuratedQuotaExceeded(t *testing.T) {
	gate := &fakeGate{usage: quota.Usage{Used: 50, Limit: 50}, err: quota.ErrQuotaExceeded}
	p := newTestPipeline(newFakeSearcher(), &fakeLoader{ctx: userCtx(quota.TierPremium)}, gate, &fakeGenerator{}, Config{CountCurated: true})

	resp, err := p.Resolve(context.Background(), Request{UserID: "u1", Message: "what should my training philosophy be"})

	require.NoError(t, err)
	assert.Equal(t, SourceQuotaGate, resp.Source)
	assert.Contains(t, resp.Text, "50")
}

func TestResolveModelCall(t *testing.T) {
	search := newFakeSearcher()
	gate := &fakeGate{usage: quota.Usage{Used: 1, Limit: quota.Unlimited, Remaining: quota.Unlimited, Unlimited: true}}
	gen := &fakeGenerator{text: "Great job!"}
	loader := &fakeLoader{ctx: userCtx(quota.TierPremiumPlus)}
	p := newTestPipeline(search, loader, gate, gen, Config{})

	history := make([]Turn, 12)
	for i := range history {
		history[i] = Turn{Role: "user", Content: "earlier message"}
	}

	resp, err := p.Resolve(context.Background(), Request{
		UserID:   "u1",
		Message:  "how was my week overall",
		History:  history,
		Language: "en",
	})

	require.NoError(t, err)
	assert.Equal(t, SourceModel, resp.Source)
	assert.Equal(t, "Great job!", resp.Text)
	assert.Equal(t, 1, gate.calls, "model calls are always counted")
	assert.Len(t, gen.gotTurns, 8, "history must be capped at the last 8 turns")
	assert.Contains(t, gen.gotPrompt, "Omar")
	assert.Nil(t, resp.RemainingQuota, "unlimited tier has no remaining figure")
}

func TestResolveModelFailureDegrades(t *testing.T) {
	gate := &fakeGate{usage: quota.Usage{Used: 1, Limit: quota.Unlimited, Remaining: quota.Unlimited, Unlimited: true}}
	gen := &fakeGenerator{err: errors.New("model unavailable after 6 attempts")}
	p := newTestPipeline(newFakeSearcher(), &fakeLoader{ctx: userCtx(quota.TierPremiumPlus)}, gate, gen, Config{})

	resp, err := p.Resolve(context.Background(), Request{UserID: "u1", Message: "how was my week overall"})

	require.NoError(t, err, "model failures degrade instead of propagating")
	assert.Equal(t, SourceModel, resp.Source)
	assert.Contains(t, resp.Text, "technical issue")
}

func TestResolveQuotaStoreFailureIsFatal(t *testing.T) {
	gate := &fakeGate{err: errors.New("database down")}
	p := newTestPipeline(newFakeSearcher(), &fakeLoader{ctx: userCtx(quota.TierPremiumPlus)}, gate, &fakeGenerator{}, Config{})

	_, err := p.Resolve(context.Background(), Request{UserID: "u1", Message: "how was my week overall"})

	require.Error(t, err, "skipping quota enforcement is unacceptable")
}

func TestResolveContextLoadFailureIsFatal(t *testing.T) {
	loader := &fakeLoader{err: errors.New("database down")}
	p := newTestPipeline(newFakeSearcher(), loader, &fakeGate{}, &fakeGenerator{}, Config{})

	_, err := p.Resolve(context.Background(), Request{UserID: "u1", Message: "calories in koshari"})
	require.Error(t, err)
}

func TestExtractFoodQuery(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"calories in 2 eggs", "2 eggs"},
		{"protein in chicken breast", "chicken breast"},
		{"banana calories", "banana"},
		{"hello there", ""},
	}

	for _, tt := range tests {
		got := strings.TrimSpace(extractFoodQuery(tt.message))
		assert.Equal(t, tt.want, got, "message %q", tt.message)
	}
}

func TestFAQKeywords(t *testing.T) {
	keywords := faqKeywords("How Deep should I squat for max gain")
	assert.Equal(t, []string{"deep", "should", "squat", "gain"}, keywords)

	assert.Nil(t, faqKeywords("hi to me"), "short words are dropped")
}

func TestFormatProgramResponseTruncatesOnRuneBoundaries(t *testing.T) {
	programs := []catalog.Program{{
		NameEn:        "Hypertrophy Block",
		NameAr:        "برنامج الضخامة",
		DescriptionEn: strings.Repeat("resistance training for muscle growth ", 5),
		DescriptionAr: strings.Repeat("تمارين المقاومة لبناء العضلات ", 8),
		DurationWeeks: 8,
	}}

	resp := formatProgramResponse(programs, true)
	require.True(t, utf8.ValidString(resp.Text), "truncation must not split multi-byte runes")
	assert.Contains(t, resp.Text, "...")

	resp = formatProgramResponse(programs, false)
	assert.True(t, utf8.ValidString(resp.Text))
	assert.Contains(t, resp.Text, "...")
}
