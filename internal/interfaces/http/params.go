package http

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/kmgmill/ricemill-api/internal/domain"
)

// queryDate parses a date query parameter, accepting YYYY-MM-DD or
// RFC3339. A missing or malformed value yields the zero time.
func queryDate(c *fiber.Ctx, key string) time.Time {
	t, _ := queryDateStrict(c, key)
	return t
}

// queryDateStrict is for endpoints that must reject garbage dates:
// absent yields the zero time, unparsable yields ErrInvalidDateRange.
func queryDateStrict(c *fiber.Ctx, key string) (time.Time, error) {
	s := c.Query(key)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: cannot parse %s %q", domain.ErrInvalidDateRange, key, s)
}

func queryInt(c *fiber.Ctx, key string, fallback int) int {
	s := c.Query(key)
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func queryFloat(c *fiber.Ctx, key string) float64 {
	s := c.Query(key)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// paramUUID parses the :id path parameter.
func paramUUID(c *fiber.Ctx, key string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(key))
	return id, err == nil
}
