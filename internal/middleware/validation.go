package middleware

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// Input limits for the search form.
const (
	MaxQueryLen  = 200
	MaxAPIKeyLen = 128
	MinResults   = 5
	MaxResults   = 50
)

// apiKeyRe matches Google API keys: URL-safe characters only.
var apiKeyRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidateQuery trims the search text and checks its length.
func ValidateQuery(q string) (string, string) {
	q = strings.TrimSpace(q)
	if q == "" {
		return "", "search query is required"
	}
	if len(q) > MaxQueryLen {
		return "", fmt.Sprintf("search query must be at most %d characters", MaxQueryLen)
	}
	return q, ""
}

// ValidateAPIKey checks that a credential is present and well-formed.
// The message never echoes the key back.
func ValidateAPIKey(key string) (string, string) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "API key is required"
	}
	if len(key) > MaxAPIKeyLen {
		return "", fmt.Sprintf("API key must be at most %d characters", MaxAPIKeyLen)
	}
	if !apiKeyRe.MatchString(key) {
		return "", "API key contains invalid characters"
	}
	return key, ""
}

// ValidateMaxResults parses the result bound. An empty value selects def.
func ValidateMaxResults(raw string, def int) (int, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, ""
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, "max results must be a whole number"
	}
	if n < MinResults || n > MaxResults {
		return 0, fmt.Sprintf("max results must be between %d and %d", MinResults, MaxResults)
	}
	return n, ""
}
