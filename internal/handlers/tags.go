package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"backend/internal/wizard"
)

type tagQueryRequest struct {
	ParentCategoryID string `json:"parentCategoryId" binding:"required"`
	Keyword          string `json:"keyword"`
}

type tagConfirmRequest struct {
	Tag string `json:"tag" binding:"required"`
}

// SetTagQuery updates the suggestion query. The fetch itself is debounced;
// the client polls GetTagSuggestions for results.
func SetTagQuery(m *wizard.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "TAGS")

		session, ok := requireSession(c, m)
		if !ok {
			return
		}

		var req tagQueryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		session.Tags.SetParent(req.ParentCategoryID)
		session.Tags.SetQuery(req.Keyword)

		c.JSON(http.StatusAccepted, gin.H{"confirmed": session.Tags.Confirmed()})
	}
}

// GetTagSuggestions returns the freshest suggestion list for the session.
func GetTagSuggestions(m *wizard.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "TAGS")

		session, ok := requireSession(c, m)
		if !ok {
			return
		}

		suggestions, err := session.Tags.Suggestions()
		if err != nil {
			log.Println("[TAGS] [ERROR] suggestion fetch failed:", err)
			c.JSON(http.StatusOK, gin.H{"data": []string{}, "error": "suggestions unavailable"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": suggestions})
	}
}

// ConfirmTag promotes a suggestion into the confirmed set.
func ConfirmTag(m *wizard.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "TAGS")

		session, ok := requireSession(c, m)
		if !ok {
			return
		}

		var req tagConfirmRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		session.Tags.ConfirmTag(req.Tag)
		c.JSON(http.StatusOK, gin.H{"confirmed": session.Tags.Confirmed()})
	}
}

// RemoveTag drops a tag from the confirmed set.
func RemoveTag(m *wizard.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "TAGS")

		session, ok := requireSession(c, m)
		if !ok {
			return
		}

		session.Tags.RemoveTag(c.Param("tag"))
		c.JSON(http.StatusOK, gin.H{"confirmed": session.Tags.Confirmed()})
	}
}

// CommitCategoryStep validates the confirmed tags remotely, creates the
// category and advances the wizard.
func CommitCategoryStep(m *wizard.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "TAGS")

		session, ok := requireSession(c, m)
		if !ok {
			return
		}

		vr, err := session.CommitCategory(c.Request.Context())
		if err != nil {
			log.Println("[TAGS] [ERROR] category step failed:", err)
			respondCommitError(c, "TAGS", err)
			return
		}
		if !vr.Valid {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": vr.Errors})
			return
		}

		log.Println("[TAGS] [INFO] category created for session:", session.ID)
		c.JSON(http.StatusOK, gin.H{
			"idCategory": session.Draft().CategoryID,
			"step":       session.Step().String(),
			"stepPath":   wizard.PathForStep(session.Step()),
		})
	}
}
