package handler

import (
	"bytes"
	"context"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/pattypatxxr/YouTube-Video-Explorer/internal/middleware"
	"github.com/pattypatxxr/YouTube-Video-Explorer/internal/model"
	"github.com/pattypatxxr/YouTube-Video-Explorer/internal/service"
	"github.com/pattypatxxr/YouTube-Video-Explorer/internal/view"
)

// Runner executes one explorer pipeline run.
type Runner interface {
	Run(ctx context.Context, q service.Query) service.Result
}

type ExplorerHandler struct {
	runner Runner
	page   *view.Page
}

func NewExplorerHandler(runner Runner, page *view.Page) *ExplorerHandler {
	return &ExplorerHandler{runner: runner, page: page}
}

// Form handles GET / with the empty search form.
func (h *ExplorerHandler) Form(c fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, view.NewData("", service.DefaultResults))
}

// Search handles POST /search, the form submit. It renders either the
// status line, table and charts, or a single error message.
func (h *ExplorerHandler) Search(c fiber.Ctx) error {
	data := view.NewData(c.FormValue("query"), service.DefaultResults)

	q, errMsg := parseQuery(c.FormValue("api_key"), c.FormValue("query"), c.FormValue("max_results"))
	if errMsg != "" {
		data.Error = errMsg
		return h.render(c, fiber.StatusBadRequest, data)
	}
	data.Query = q.Text
	data.MaxResults = q.MaxResults
	q.Charts = true

	res := h.runner.Run(c.Context(), q)
	if !res.OK() {
		data.Error = res.Failure.Message
		return h.render(c, fiber.StatusOK, data)
	}
	data.Result = h.page.NewResult(res)
	return h.render(c, fiber.StatusOK, data)
}

type searchRequest struct {
	APIKey     string `json:"apiKey"`
	Query      string `json:"query"`
	MaxResults int    `json:"maxResults"`
}

type searchResponse struct {
	RunID   string              `json:"runId"`
	Status  string              `json:"status"`
	Count   int                 `json:"count"`
	Dropped int                 `json:"dropped"`
	Rows    []model.VideoRecord `json:"rows"`
	Report  *model.Report       `json:"report"`
}

// SearchAPI handles POST /api/search: the same pipeline as JSON.
func (h *ExplorerHandler) SearchAPI(c fiber.Ctx) error {
	var req searchRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	maxRaw := ""
	if req.MaxResults != 0 {
		maxRaw = strconv.Itoa(req.MaxResults)
	}
	q, errMsg := parseQuery(req.APIKey, req.Query, maxRaw)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	res := h.runner.Run(c.Context(), q)
	if !res.OK() {
		return middleware.ErrorResponse(c, fiber.StatusBadGateway, "OPERATION_FAILED", res.Failure.Message)
	}

	return c.JSON(searchResponse{
		RunID:   res.RunID,
		Status:  res.Report.Status,
		Count:   res.Table.Len(),
		Dropped: res.Dropped,
		Rows:    res.Table.Rows,
		Report:  res.Report,
	})
}

func parseQuery(apiKey, text, maxResults string) (service.Query, string) {
	key, errMsg := middleware.ValidateAPIKey(apiKey)
	if errMsg != "" {
		return service.Query{}, errMsg
	}
	query, errMsg := middleware.ValidateQuery(text)
	if errMsg != "" {
		return service.Query{}, errMsg
	}
	n, errMsg := middleware.ValidateMaxResults(maxResults, service.DefaultResults)
	if errMsg != "" {
		return service.Query{}, errMsg
	}
	return service.Query{APIKey: key, Text: query, MaxResults: n}, ""
}

func (h *ExplorerHandler) render(c fiber.Ctx, status int, data view.Data) error {
	var buf bytes.Buffer
	if err := h.page.Render(&buf, data); err != nil {
		middleware.Logger.Error().Err(err).Msg("render page")
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to render page")
	}
	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.Status(status).Send(buf.Bytes())
}
