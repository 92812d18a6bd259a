package services

import (
	"context"
	"errors"
	"testing"

	"github.com/learnhub-platform/learnhub-api/services/inference"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	configured bool
	reply      string
	err        error

	prompt string
	req    inference.Request
}

func (f *fakeCompleter) Configured() bool { return f.configured }

func (f *fakeCompleter) Prompt(_ context.Context, prompt string, opts ...inference.Option) (string, error) {
	f.prompt = prompt
	f.req = inference.Request{}
	for _, opt := range opts {
		opt(&f.req)
	}
	return f.reply, f.err
}

func TestAIServiceNotConfigured(t *testing.T) {
	svc := NewAIService(&fakeCompleter{})

	_, err := svc.GenerateSummary(context.Background(), "text")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = svc.GenerateQuiz(context.Background(), "text", 0)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestGenerateSummaryUsesTokenBudgetAndFallback(t *testing.T) {
	fake := &fakeCompleter{configured: true, reply: "   "}
	svc := NewAIService(fake)

	out, err := svc.GenerateSummary(context.Background(), "Cells divide.")
	require.NoError(t, err)

	assert.Equal(t, "Could not generate summary", out)
	assert.Equal(t, 500, fake.req.MaxTokens)
	assert.Contains(t, fake.prompt, "Cells divide.")
}

func TestGenerateQuizParsesJSON(t *testing.T) {
	fake := &fakeCompleter{configured: true, reply: "```json\n" + `{"questions":[{"question":"2+2?","options":["1","2","3","4"],"correctIndex":3}]}` + "\n```"}
	svc := NewAIService(fake)

	quiz, err := svc.GenerateQuiz(context.Background(), "arithmetic", 0)
	require.NoError(t, err)

	require.Len(t, quiz.Questions, 1)
	assert.Equal(t, 3, quiz.Questions[0].CorrectIndex)
	assert.Contains(t, fake.prompt, "generate 5 quiz questions")
	require.NotNil(t, fake.req.ResponseFormat)
	assert.Equal(t, "json_object", fake.req.ResponseFormat.Type)
}

func TestGenerateQuizInvalidJSON(t *testing.T) {
	svc := NewAIService(&fakeCompleter{configured: true, reply: "not json"})

	_, err := svc.GenerateQuiz(context.Background(), "x", 3)
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestUpstreamFailureMapsToErrUpstream(t *testing.T) {
	svc := NewAIService(&fakeCompleter{configured: true, err: errors.New("boom")})

	_, err := svc.GenerateNotes(context.Background(), "x")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestGenerateLessonPlanDefaultsDuration(t *testing.T) {
	fake := &fakeCompleter{configured: true, reply: "# Plan"}
	out, err := NewAIService(fake).GenerateLessonPlan(context.Background(), "Fractions", "")
	require.NoError(t, err)

	assert.Equal(t, "# Plan", out)
	assert.Contains(t, fake.prompt, `"Fractions" in a 60 minutes session`)
	assert.Equal(t, 1000, fake.req.MaxTokens)
}

func TestGenerateCustomStripsHTMLReference(t *testing.T) {
	fake := &fakeCompleter{configured: true, reply: "ok"}
	_, err := NewAIService(fake).GenerateCustom(context.Background(), "Write a worksheet", "<p>Newton's <b>laws</b></p><script>x()</script>")
	require.NoError(t, err)

	assert.Contains(t, fake.prompt, "Reference material:\nNewton's laws")
	assert.NotContains(t, fake.prompt, "<p>")
	assert.NotContains(t, fake.prompt, "x()")
	assert.Equal(t, 1500, fake.req.MaxTokens)

	_, err = NewAIService(fake).GenerateCustom(context.Background(), "Only instructions", "")
	require.NoError(t, err)
	assert.NotContains(t, fake.prompt, "Reference material")
}
