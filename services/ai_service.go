package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/learnhub-platform/learnhub-api/services/inference"
	"github.com/learnhub-platform/learnhub-api/utils/htmltext"
)

const (
	DefaultQuizQuestions  = 5
	DefaultLessonDuration = "60 minutes"
)

// Completer is the slice of the inference client the AI service needs.
type Completer interface {
	Configured() bool
	Prompt(ctx context.Context, prompt string, opts ...inference.Option) (string, error)
}

type AIService struct {
	client Completer
}

func NewAIService(client Completer) *AIService {
	return &AIService{client: client}
}

type QuizQuestion struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
}

type Quiz struct {
	Questions []QuizQuestion `json:"questions"`
}

func (s *AIService) Configured() bool {
	return s.client != nil && s.client.Configured()
}

func (s *AIService) GenerateSummary(ctx context.Context, text string) (string, error) {
	prompt := "Please create a concise educational summary of the following text, highlighting key concepts and important points:\n\n" + text
	return s.complete(ctx, "summary", prompt, "Could not generate summary", inference.WithMaxTokens(500))
}

func (s *AIService) GenerateQuiz(ctx context.Context, text string, numberOfQuestions int) (*Quiz, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}
	if numberOfQuestions <= 0 {
		numberOfQuestions = DefaultQuizQuestions
	}

	prompt := fmt.Sprintf(`Based on the following educational content, generate %d quiz questions with multiple choice answers (4 options per question). For each question, indicate the correct answer. Format the response as JSON with an array of questions, each containing the question text, answer options, and correct answer index.

Content:
%s

Please provide the response in the following JSON format:
{
  "questions": [
    {
      "question": "Question text here?",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "correctIndex": 0
    }
  ]
}`, numberOfQuestions, text)

	raw, err := s.client.Prompt(ctx, prompt, inference.WithJSONObject())
	if err != nil {
		log.Errorf("AI quiz generation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	var quiz Quiz
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &quiz); err != nil {
		log.Errorf("AI quiz response was not valid JSON: %v", err)
		return nil, fmt.Errorf("%w: invalid quiz JSON: %v", ErrUpstream, err)
	}
	if quiz.Questions == nil {
		quiz.Questions = []QuizQuestion{}
	}
	return &quiz, nil
}

func (s *AIService) GenerateNotes(ctx context.Context, text string) (string, error) {
	prompt := "Create comprehensive study notes from the following educational content. Include bullet points, section headings, and highlight key concepts. Format it in markdown for readability:\n\nContent:\n" + text
	return s.complete(ctx, "notes", prompt, "Could not generate study notes", inference.WithMaxTokens(1000))
}

func (s *AIService) GenerateLessonPlan(ctx context.Context, topic, duration string) (string, error) {
	if strings.TrimSpace(duration) == "" {
		duration = DefaultLessonDuration
	}
	prompt := fmt.Sprintf("Create a detailed lesson plan for teaching %q in a %s session. Include learning objectives, activities, time allocation, materials needed, and assessment methods. Format the response in markdown.", topic, duration)
	return s.complete(ctx, "lesson plan", prompt, "Could not generate lesson plan", inference.WithMaxTokens(1000))
}

// GenerateCustom follows free-form instructions. HTML in reference is reduced to its text.
func (s *AIService) GenerateCustom(ctx context.Context, instructions, reference string) (string, error) {
	prompt := "Generate educational content based on these instructions: " + instructions
	if ref := htmltext.Text(reference); ref != "" {
		prompt += "\n\nReference material:\n" + ref
	}
	return s.complete(ctx, "custom content", prompt, "Could not generate content", inference.WithMaxTokens(1500))
}

func (s *AIService) complete(ctx context.Context, kind, prompt, fallback string, opts ...inference.Option) (string, error) {
	if !s.Configured() {
		return "", ErrNotConfigured
	}

	out, err := s.client.Prompt(ctx, prompt, opts...)
	if err != nil {
		log.Errorf("AI %s generation failed: %v", kind, err)
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if strings.TrimSpace(out) == "" {
		return fallback, nil
	}
	return out, nil
}

// stripCodeFence removes a ```json fence some models wrap around JSON mode output.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
