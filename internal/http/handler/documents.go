package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"unihub/internal/http/middleware"
	"unihub/internal/model"
	"unihub/internal/repository"
	"unihub/internal/search"
	"unihub/internal/service"
)

const totalCountHeader = "X-Total-Count"

// documentID validates the :id path parameter.
func documentID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

func invalidID(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
}

func filterFrom(c *fiber.Ctx) model.DocumentFilter {
	return model.DocumentFilter{
		University: c.Query("university"),
		Faculty:    c.Query("faculty"),
		Course:     c.Query("course"),
	}
}

// pageFrom reads limit and offset. Missing values mean "everything".
// On bad input it returns the error code to answer with.
func pageFrom(c *fiber.Ctx) (repository.PageQuery, string) {
	var pq repository.PageQuery
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return pq, "INVALID_LIMIT"
		}
		pq.Limit = n
	}
	if s := c.Query("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return pq, "INVALID_OFFSET"
		}
		pq.Offset = n
	}
	return pq, ""
}

func badPage(c *fiber.Ctx, code string) error {
	if code == "INVALID_LIMIT" {
		return writeError(c, fiber.StatusBadRequest, code, "invalid limit")
	}
	return writeError(c, fiber.StatusBadRequest, code, "invalid offset")
}

func userID(c *fiber.Ctx) string {
	if u := middleware.CurrentUser(c); u != nil {
		return u.ID
	}
	return ""
}

// upload godoc
// @Summary Upload a course document
// @Tags documents
// @Accept mpfd
// @Produce json
// @Param file formData file true "document file"
// @Success 201 {object} map[string]interface{}
// @Router /uploadfile/ [post]
func (h *handler) upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
	}

	f, err := fh.Open()
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
	}
	defer f.Close()

	ct := fh.Header.Get(fiber.HeaderContentType)
	if ct == "" {
		ct = "application/octet-stream"
	}

	doc, err := h.docs.Upload(c.UserContext(), service.UploadInput{
		Reader:       f,
		Filename:     fh.Filename,
		ContentType:  ct,
		Size:         fh.Size,
		UploaderID:   userID(c),
		University:   c.FormValue("university"),
		Faculty:      c.FormValue("faculty"),
		Course:       c.FormValue("course"),
		Title:        c.FormValue("documentTitle"),
		Description:  c.FormValue("description"),
		DocumentType: c.FormValue("documentType"),
		Tags:         c.FormValue("tags"),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":   "success",
		"filename": doc.Filename,
		"id":       doc.ID,
		"document": doc,
	})
}

// listDocuments godoc
// @Summary List documents ranked by engagement
// @Tags documents
// @Produce json
// @Param university query string false "exact university"
// @Param faculty query string false "exact faculty"
// @Param course query string false "exact course"
// @Success 200 {array} model.RankedDocument
// @Header 200 {integer} X-Total-Count "documents matching the filter"
// @Router /documents/ [get]
func (h *handler) listDocuments(c *fiber.Ctx) error {
	pq, code := pageFrom(c)
	if code != "" {
		return badPage(c, code)
	}
	res, err := h.docs.ListRanked(c.UserContext(), filterFrom(c), pq)
	if err != nil {
		return h.fail(c, err)
	}
	// The frontend reads a bare array; the unpaged count travels in a header.
	c.Set(totalCountHeader, strconv.Itoa(res.Total))
	return c.JSON(res.Items)
}

func (h *handler) getDocument(c *fiber.Ctx) error {
	id, ok := documentID(c)
	if !ok {
		return invalidID(c)
	}
	doc, err := h.docs.Get(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(doc)
}

func (h *handler) download(c *fiber.Ctx) error {
	id, ok := documentID(c)
	if !ok {
		return invalidID(c)
	}
	rc, doc, err := h.docs.Download(c.UserContext(), id, userID(c))
	if err != nil {
		return h.fail(c, err)
	}
	c.Attachment(doc.Filename)
	if doc.ContentType != "" {
		c.Set(fiber.HeaderContentType, doc.ContentType)
	}
	if doc.Size > 0 {
		return c.SendStream(rc, int(doc.Size))
	}
	return c.SendStream(rc)
}

func (h *handler) myDocuments(c *fiber.Ctx) error {
	docs, err := h.docs.MyDocuments(c.UserContext(), userID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(docs)
}

func (h *handler) myDownloads(c *fiber.Ctx) error {
	docs, err := h.engagement.ListDownloads(c.UserContext(), userID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(docs)
}

func (h *handler) myFavorites(c *fiber.Ctx) error {
	docs, err := h.engagement.ListFavorites(c.UserContext(), userID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(docs)
}

// search godoc
// @Summary Full-text document search
// @Tags documents
// @Produce json
// @Param q query string true "search text"
// @Success 200 {object} search.Response
// @Router /api/search [get]
func (h *handler) search(c *fiber.Ctx) error {
	pq, code := pageFrom(c)
	if code != "" {
		return badPage(c, code)
	}
	res, err := h.docs.Search(c.UserContext(), search.Query{
		Text:   c.Query("q"),
		Filter: filterFrom(c),
		Limit:  pq.Limit,
		Offset: pq.Offset,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(res)
}
