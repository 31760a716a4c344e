package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"party-hub/internal/game"
)

func writeError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// writeGameError maps the engine's error taxonomy onto HTTP statuses.
func writeGameError(c *gin.Context, err error) {
	switch {
	case game.IsValidation(err):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, game.ErrScoreNotFound),
		errors.Is(err, game.ErrBadgeNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, game.ErrPermission):
		writeError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, game.ErrAlreadyAwarded),
		errors.Is(err, game.ErrInsufficientPoints):
		writeError(c, http.StatusBadRequest, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func paramID(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || value == 0 {
		writeError(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(value), true
}

func queryID(c *gin.Context, names ...string) (uint, bool) {
	for _, name := range names {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		value, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || value == 0 {
			return 0, false
		}
		return uint(value), true
	}
	return 0, false
}

func queryLimit(c *gin.Context, fallback, max int) int {
	limit := fallback
	if raw := c.Query("limit"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			limit = value
		}
	}
	if max > 0 && limit > max {
		limit = max
	}
	return limit
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
