package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"unihub/internal/content"
)

// processRequest selects the outputs of content processing. Omitted flags
// default to true; zero questions uses the configured default.
type processRequest struct {
	NumQuestions    int   `json:"num_questions"`
	IncludeSummary  *bool `json:"include_summary"`
	IncludeKeywords *bool `json:"include_keywords"`
}

func (r processRequest) options() content.Options {
	return content.Options{
		Questions:       r.NumQuestions,
		IncludeSummary:  r.IncludeSummary == nil || *r.IncludeSummary,
		IncludeKeywords: r.IncludeKeywords == nil || *r.IncludeKeywords,
	}
}

// parseBody tolerates an empty body so every field can take its default.
func parseBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return c.BodyParser(out)
}

// formBool reads a multipart flag; anything unparsable keeps the default.
func formBool(c *fiber.Ctx, key string, def bool) bool {
	v, err := strconv.ParseBool(c.FormValue(key))
	if err != nil {
		return def
	}
	return v
}

func (h *handler) processDocument(c *fiber.Ctx) error {
	id, ok := documentID(c)
	if !ok {
		return invalidID(c)
	}
	var req processRequest
	if err := parseBody(c, &req); err != nil {
		return badBody(c)
	}
	res, err := h.content.ProcessDocument(c.UserContext(), id, req.options())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(res)
}

func (h *handler) generateQuiz(c *fiber.Ctx) error {
	id, ok := documentID(c)
	if !ok {
		return invalidID(c)
	}
	var req processRequest
	if err := parseBody(c, &req); err != nil {
		return badBody(c)
	}
	quiz, err := h.content.GenerateQuiz(c.UserContext(), id, req.NumQuestions)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(quiz)
}

func (h *handler) processFile(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
	}
	defer f.Close()

	n, _ := strconv.Atoi(c.FormValue("num_questions"))
	res, err := h.content.ProcessFile(c.UserContext(), f, content.Options{
		Questions:       n,
		IncludeSummary:  formBool(c, "include_summary", true),
		IncludeKeywords: formBool(c, "include_keywords", true),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(res)
}
