// Package server contains the HTTP and WebSocket handlers of the blog API.
package server

import (
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/NirojT/AspBlogBacken/internal/middleware"
	"github.com/NirojT/AspBlogBacken/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const (
	maxPaginationLimit = 100
)

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
// The error message is derived from the parameter name (e.g. "id" -> "Invalid ID",
// "commentId" -> "Invalid comment ID").
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "userId" -> "user ID", "commentId" -> "comment ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		words := splitCamel(param[:len(param)-2])
		return strings.ToLower(strings.Join(words, " ")) + " ID"
	}
	return param
}

// splitCamel splits a camelCase string into words.
func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	words = append(words, s[start:])
	return words
}

// currentUserID returns the caller set by AuthRequired. On failure it writes
// a 401 response and returns errResponseWritten.
func currentUserID(c *fiber.Ctx) (uint, error) {
	userID, ok := middleware.UserID(c)
	if !ok {
		_ = models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authorization required"))
		return 0, errResponseWritten
	}
	return userID, nil
}

// respondError writes err with the status that matches its error code.
func respondError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.StatusFor(err), err)
}

// bodyError answers a request whose JSON body could not be decoded.
func bodyError(c *fiber.Ctx) error {
	return models.RespondWithError(c, fiber.StatusBadRequest,
		models.NewValidationError("Invalid request body"))
}

var queryTimeLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// parseTimeQuery reads an optional timestamp query parameter. A bare date is
// taken as midnight UTC.
func parseTimeQuery(c *fiber.Ctx, key string) (time.Time, bool, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return time.Time{}, false, nil
	}
	for _, layout := range queryTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true, nil
		}
	}
	return time.Time{}, false, models.NewValidationError("Invalid " + key + " timestamp")
}

// dateRange holds the optional from/to query window of the count endpoints.
type dateRange struct {
	From time.Time
	To   time.Time
	Set  bool
}

// parseDateRange reads "from" and "to". Both or neither must be present. On
// failure it writes a 400 response and returns errResponseWritten.
func parseDateRange(c *fiber.Ctx) (dateRange, error) {
	from, hasFrom, err := parseTimeQuery(c, "from")
	if err == nil {
		var to time.Time
		var hasTo bool
		to, hasTo, err = parseTimeQuery(c, "to")
		if err == nil {
			if hasFrom != hasTo {
				err = models.NewValidationError("from and to must be given together")
			} else {
				return dateRange{From: from, To: to, Set: hasFrom}, nil
			}
		}
	}
	_ = models.RespondWithError(c, fiber.StatusBadRequest, err)
	return dateRange{}, errResponseWritten
}
