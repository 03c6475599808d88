package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/workforce-service/pkg/util/errorutil"
)

const dateParamLayout = "2006-01-02"

// parseIDParam reads a numeric path parameter.
func parseIDParam(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid "+name, map[string]any{name: c.Params(name)})
	}
	return id, nil
}

// parsePagination reads page/per_page query params with sane bounds.
func parsePagination(c *fiber.Ctx, defaultPerPage, maxPerPage int) (page, perPage int) {
	page, _ = strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ = strconv.Atoi(c.Query("per_page", strconv.Itoa(defaultPerPage)))
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

// parseDateQuery reads an optional YYYY-MM-DD query parameter.
func parseDateQuery(c *fiber.Ctx, name string) (*time.Time, error) {
	value := c.Query(name)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateParamLayout, value)
	if err != nil {
		return nil, apperrors.NewValidationError(name+" must be in YYYY-MM-DD format",
			map[string]any{name: value})
	}
	return &parsed, nil
}

// paginated builds the standard list envelope.
func paginated(key string, items any, total, page, perPage int) fiber.Map {
	pages := 0
	if perPage > 0 {
		pages = (total + perPage - 1) / perPage
	}
	return fiber.Map{
		key:            items,
		"total":        total,
		"pages":        pages,
		"current_page": page,
		"per_page":     perPage,
	}
}
