package regression

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/clipsight/clipsight/internal/model"
)

// countProvider embeds text as counts of a fixed vocabulary so similarity is
// predictable without a backend
type countProvider struct {
	words []string
}

func newCountProvider() *countProvider {
	return &countProvider{words: []string{"deadpan", "timing", "absurd", "relatable"}}
}

func (p *countProvider) Name() string                         { return "count" }
func (p *countProvider) Dimension() int                       { return len(p.words) }
func (p *countProvider) IsAvailable(ctx context.Context) bool { return true }

func (p *countProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	lower := strings.ToLower(text)
	vec := make([]float32, len(p.words))
	for i, w := range p.words {
		vec[i] = float32(strings.Count(lower, w))
	}
	return vec, nil
}

func (p *countProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, _ := p.Embed(ctx, t)
		out[i] = vec
	}
	return out, nil
}

// scriptedStrategy returns canned output per example id
type scriptedStrategy struct {
	outputs map[string]string
	errs    map[string]error
}

func (s *scriptedStrategy) Name() string { return "scripted" }

func (s *scriptedStrategy) Analyze(ctx context.Context, example model.TeachingExample) (string, error) {
	if err, ok := s.errs[example.ID]; ok {
		return "", err
	}
	return s.outputs[example.ID], nil
}

func intPtr(v int) *int { return &v }

func newTestEvaluator(strategy Strategy) *Evaluator {
	return NewEvaluator(newCountProvider(), strategy, model.BatchConfig{ChunkSize: 5}, nil, "test")
}

func TestEvaluate_ImprovedItem(t *testing.T) {
	// Candidate matches ground truth exactly, so new score is 100
	example := model.TeachingExample{
		ID:                    "ex-1",
		VideoSummary:          "a deadpan office skit",
		CorrectInterpretation: "deadpan timing carries the joke",
		BaselineScore:         intPtr(80),
	}
	strategy := &scriptedStrategy{outputs: map[string]string{
		"ex-1": "deadpan timing carries the joke",
	}}

	report, err := newTestEvaluator(strategy).Evaluate(context.Background(), []model.TeachingExample{example})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if report.Evaluated != 1 || report.Compared != 1 {
		t.Fatalf("Expected 1 evaluated and compared, got %d/%d", report.Evaluated, report.Compared)
	}
	item := report.Items[0]
	if item.NewScore != 100 {
		t.Errorf("Expected score 100 for identical text, got %d", item.NewScore)
	}
	if item.Delta == nil || *item.Delta != 20 {
		t.Errorf("Expected delta 20, got %v", item.Delta)
	}
	if report.Improved != 1 {
		t.Errorf("Expected item counted as improved, got %d", report.Improved)
	}
	if report.ImprovedPercent != 100 {
		t.Errorf("Expected 100%% improved, got %f", report.ImprovedPercent)
	}
}

func TestEvaluate_RegressedItemNotImproved(t *testing.T) {
	example := model.TeachingExample{
		ID:                    "ex-1",
		VideoSummary:          "a deadpan office skit",
		CorrectInterpretation: "deadpan timing carries the joke",
		BaselineScore:         intPtr(100),
	}
	// Candidate shares some but not all vocabulary, so similarity < 1
	strategy := &scriptedStrategy{outputs: map[string]string{
		"ex-1": "an absurd premise with good timing",
	}}

	report, err := newTestEvaluator(strategy).Evaluate(context.Background(), []model.TeachingExample{example})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	item := report.Items[0]
	if item.NewScore >= 100 {
		t.Errorf("Expected score below 100, got %d", item.NewScore)
	}
	if item.Delta == nil || *item.Delta >= 0 {
		t.Errorf("Expected negative delta, got %v", item.Delta)
	}
	if report.Improved != 0 {
		t.Errorf("Regressed item must not count as improved, got %d", report.Improved)
	}
}

func TestEvaluate_NoBaselineScoredButNotCompared(t *testing.T) {
	example := model.TeachingExample{
		ID:                    "ex-1",
		VideoSummary:          "a deadpan office skit",
		CorrectInterpretation: "deadpan timing carries the joke",
	}
	strategy := &scriptedStrategy{outputs: map[string]string{
		"ex-1": "deadpan timing carries the joke",
	}}

	report, err := newTestEvaluator(strategy).Evaluate(context.Background(), []model.TeachingExample{example})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if report.Evaluated != 1 {
		t.Errorf("Expected item evaluated, got %d", report.Evaluated)
	}
	if report.Compared != 0 {
		t.Errorf("Item without baseline must not be compared, got %d", report.Compared)
	}
	if report.Items[0].Delta != nil {
		t.Error("Expected nil delta without a baseline")
	}
}

func TestEvaluate_PerItemFailureExcluded(t *testing.T) {
	examples := []model.TeachingExample{
		{ID: "ok", VideoSummary: "deadpan skit", CorrectInterpretation: "deadpan timing", BaselineScore: intPtr(50)},
		{ID: "broken", VideoSummary: "absurd skit", CorrectInterpretation: "absurd escalation", BaselineScore: intPtr(50)},
	}
	strategy := &scriptedStrategy{
		outputs: map[string]string{"ok": "deadpan timing"},
		errs:    map[string]error{"broken": errors.New("model unavailable")},
	}

	report, err := newTestEvaluator(strategy).Evaluate(context.Background(), examples)
	if err != nil {
		t.Fatalf("A per-item failure must not abort the run: %v", err)
	}

	if report.Evaluated != 1 || report.Compared != 1 {
		t.Errorf("Expected only the healthy item in the aggregate, got %d/%d", report.Evaluated, report.Compared)
	}
	if len(report.Failed) != 1 || report.Failed[0] != "broken" {
		t.Errorf("Expected broken item listed as failed, got %v", report.Failed)
	}
	if report.MeanBaseline != 50 {
		t.Errorf("Failed item must not pollute the means, got %f", report.MeanBaseline)
	}
}

func TestEvaluate_EmptyCandidateIsFailure(t *testing.T) {
	example := model.TeachingExample{
		ID:                    "ex-1",
		VideoSummary:          "a deadpan office skit",
		CorrectInterpretation: "deadpan timing",
	}
	strategy := &scriptedStrategy{outputs: map[string]string{"ex-1": "   "}}

	report, err := newTestEvaluator(strategy).Evaluate(context.Background(), []model.TeachingExample{example})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if report.Evaluated != 0 || len(report.Failed) != 1 {
		t.Errorf("Blank candidate output must be a per-item failure, got %d evaluated", report.Evaluated)
	}
}

func TestEvaluate_Means(t *testing.T) {
	examples := []model.TeachingExample{
		{ID: "a", VideoSummary: "s", CorrectInterpretation: "deadpan timing", BaselineScore: intPtr(60)},
		{ID: "b", VideoSummary: "s", CorrectInterpretation: "absurd escalation", BaselineScore: intPtr(80)},
	}
	// Both candidates match ground truth exactly: new scores 100 and 100
	strategy := &scriptedStrategy{outputs: map[string]string{
		"a": "deadpan timing",
		"b": "absurd escalation",
	}}

	report, err := newTestEvaluator(strategy).Evaluate(context.Background(), examples)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if report.MeanBaseline != 70 {
		t.Errorf("Expected mean baseline 70, got %f", report.MeanBaseline)
	}
	if report.MeanNew != 100 {
		t.Errorf("Expected mean new 100, got %f", report.MeanNew)
	}
	if math.Abs(report.MeanDelta-30) > 1e-9 {
		t.Errorf("Expected mean delta 30, got %f", report.MeanDelta)
	}
}

func TestComparisonText_IncludesReasoning(t *testing.T) {
	example := model.TeachingExample{
		CorrectInterpretation: "deadpan timing",
		Explanation:           "the pause sells it",
		DeepReasoning: &model.DeepReasoning{
			WhyItWorks: "expectation subversion",
		},
	}

	text := ComparisonText(example)

	for _, want := range []string{"deadpan timing", "the pause sells it", "expectation subversion"} {
		if !strings.Contains(text, want) {
			t.Errorf("Comparison text missing %q", want)
		}
	}
}
