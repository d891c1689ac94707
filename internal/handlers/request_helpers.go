package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"backend/internal/catalog"
	"backend/internal/wizard"
)

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		log.Printf("[%s] panic recovered: %v", route, r)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func respondWithError(c *gin.Context, status int, route string, message string) {
	log.Printf("[%s] returning error %d: %s", route, status, message)
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

func respondValidationError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			field := lowerCamel(fieldError.Field())
			switch fieldError.Tag() {
			case "required":
				details = append(details, fmt.Sprintf("%s is required", field))
			default:
				details = append(details, fmt.Sprintf("%s is invalid", field))
			}
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation failed",
			"details": details,
		})
		return
	}

	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// requireSession resolves the wizard session the middleware authenticated.
// Responds and returns false when it is missing or expired.
func requireSession(c *gin.Context, m *wizard.Manager) (*wizard.Session, bool) {
	sessionID, ok := c.Get("sessionId")
	if !ok {
		respondWithError(c, http.StatusUnauthorized, "ONBOARDING", "unauthorized")
		return nil, false
	}

	session, err := m.Get(c.Request.Context(), sessionID.(string))
	if err != nil {
		respondWithError(c, http.StatusNotFound, "ONBOARDING", "session not found or expired")
		return nil, false
	}
	return session, true
}

// respondCommitError translates the step-commit error taxonomy: busy and
// out-of-order sessions are conflicts, catalog rejections are semantic
// failures the user can correct, anything else is a transport problem.
func respondCommitError(c *gin.Context, route string, err error) {
	switch {
	case errors.Is(err, wizard.ErrStepBusy):
		respondWithError(c, http.StatusConflict, route, "step submission already in progress")
	case errors.Is(err, wizard.ErrOutOfOrder), errors.Is(err, wizard.ErrNotReady):
		respondWithError(c, http.StatusConflict, route, err.Error())
	case catalog.IsRejection(err):
		respondWithError(c, http.StatusUnprocessableEntity, route, err.Error())
	default:
		respondWithError(c, http.StatusBadGateway, route, "catalog service unavailable")
	}
}
