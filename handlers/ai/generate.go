package ai

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/learnhub-platform/learnhub-api/handlers"
	"github.com/learnhub-platform/learnhub-api/services"
	"github.com/learnhub-platform/learnhub-api/utils/pdftext"
	"github.com/learnhub-platform/learnhub-api/utils/response"
)

// AIHandler exposes the content generation endpoints.
type AIHandler struct {
	ai *services.AIService
}

func NewAIHandler(ai *services.AIService) *AIHandler {
	return &AIHandler{ai: ai}
}

// GenerateRequest covers every generation endpoint. It is read from JSON or
// multipart form bodies; a multipart "file" holding a PDF replaces Text.
type GenerateRequest struct {
	Text              string `json:"text" form:"text"`
	NumberOfQuestions int    `json:"numberOfQuestions" form:"numberOfQuestions"`
	Topic             string `json:"topic" form:"topic"`
	Duration          string `json:"duration" form:"duration"`
	Instructions      string `json:"instructions" form:"instructions"`
	Reference         string `json:"reference" form:"reference"`
}

// RequireConfigured short-circuits every AI route when no API key is set.
func (h *AIHandler) RequireConfigured() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !h.ai.Configured() {
			return response.ServiceUnavailable(c, "AI content generation is not configured")
		}
		return c.Next()
	}
}

// parse returns the request or a client-facing message describing why it is unusable.
func (h *AIHandler) parse(c *fiber.Ctx) (*GenerateRequest, string) {
	var req GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, "Invalid request body"
	}

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		if fh, err := c.FormFile("file"); err == nil {
			text, err := pdftext.FromFileHeader(fh, pdftext.DefaultLimits)
			if err != nil {
				return nil, pdfMessage(err)
			}
			req.Text = text
		}
	}
	return &req, ""
}

func pdfMessage(err error) string {
	switch {
	case errors.Is(err, pdftext.ErrExtension), errors.Is(err, pdftext.ErrNotPDF):
		return "Only PDF files are supported"
	case errors.Is(err, pdftext.ErrTooLarge):
		return "PDF exceeds the maximum allowed size"
	case errors.Is(err, pdftext.ErrTooMany):
		return "PDF has too many pages"
	case errors.Is(err, pdftext.ErrNoText), errors.Is(err, pdftext.ErrNoPages), errors.Is(err, pdftext.ErrEmpty):
		return "No text could be extracted from the PDF"
	}
	return "Failed to read PDF"
}

// GenerateSummary handles POST /api/ai/generate-summary
func (h *AIHandler) GenerateSummary(c *fiber.Ctx) error {
	req, msg := h.parse(c)
	if req == nil {
		return response.BadRequest(c, msg)
	}
	if strings.TrimSpace(req.Text) == "" {
		return response.BadRequest(c, "Text content is required")
	}

	summary, err := h.ai.GenerateSummary(c.UserContext(), req.Text)
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to generate content summary")
	}
	return response.Success(c, fiber.Map{"summary": summary})
}

// GenerateQuiz handles POST /api/ai/generate-quiz
func (h *AIHandler) GenerateQuiz(c *fiber.Ctx) error {
	req, msg := h.parse(c)
	if req == nil {
		return response.BadRequest(c, msg)
	}
	if strings.TrimSpace(req.Text) == "" {
		return response.BadRequest(c, "Text content is required")
	}

	quiz, err := h.ai.GenerateQuiz(c.UserContext(), req.Text, req.NumberOfQuestions)
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to generate quiz questions")
	}
	return response.Success(c, quiz)
}

// GenerateNotes handles POST /api/ai/generate-notes
func (h *AIHandler) GenerateNotes(c *fiber.Ctx) error {
	req, msg := h.parse(c)
	if req == nil {
		return response.BadRequest(c, msg)
	}
	if strings.TrimSpace(req.Text) == "" {
		return response.BadRequest(c, "Text content is required")
	}

	notes, err := h.ai.GenerateNotes(c.UserContext(), req.Text)
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to generate study notes")
	}
	return response.Success(c, fiber.Map{"notes": notes})
}

// GenerateLessonPlan handles POST /api/ai/generate-lesson-plan
func (h *AIHandler) GenerateLessonPlan(c *fiber.Ctx) error {
	req, msg := h.parse(c)
	if req == nil {
		return response.BadRequest(c, msg)
	}
	if strings.TrimSpace(req.Topic) == "" {
		return response.BadRequest(c, "Topic is required")
	}

	plan, err := h.ai.GenerateLessonPlan(c.UserContext(), req.Topic, req.Duration)
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to generate lesson plan")
	}
	return response.Success(c, fiber.Map{"lessonPlan": plan})
}

// GenerateCustom handles POST /api/ai/generate-custom
func (h *AIHandler) GenerateCustom(c *fiber.Ctx) error {
	req, msg := h.parse(c)
	if req == nil {
		return response.BadRequest(c, msg)
	}
	if strings.TrimSpace(req.Instructions) == "" {
		return response.BadRequest(c, "Instructions are required")
	}

	content, err := h.ai.GenerateCustom(c.UserContext(), req.Instructions, req.Reference)
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to generate custom content")
	}
	return response.Success(c, fiber.Map{"content": content})
}
