package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"backend/internal/wizard"
)

type levelSelectRequest struct {
	Code string `json:"code" binding:"required"`
	Name string `json:"name"`
}

// ListProvinces returns the top level of the address cascade. It does not
// need a selection, so it talks to the directory directly.
func ListProvinces(directory wizard.AddressDirectory) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "ADDRESS")

		options, err := directory.ListProvinces(c.Request.Context())
		if err != nil {
			log.Println("[ADDRESS] [ERROR] province list failed:", err)
			respondWithError(c, http.StatusBadGateway, "ADDRESS", "address directory unavailable")
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": options})
	}
}

// SelectProvince records the province choice and returns its district list.
func SelectProvince(m *wizard.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "ADDRESS")

		session, ok := requireSession(c, m)
		if !ok {
			return
		}

		var req levelSelectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		options, err := session.Cascade.SelectProvince(c.Request.Context(), req.Code, req.Name)
		if err != nil {
			log.Println("[ADDRESS] [ERROR] district fetch failed:", err)
			respondWithError(c, http.StatusBadGateway, "ADDRESS", "could not load districts")
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": options})
	}
}

// SelectDistrict records the district choice and returns its ward list.
func SelectDistrict(m *wizard.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "ADDRESS")

		session, ok := requireSession(c, m)
		if !ok {
			return
		}

		var req levelSelectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		options, err := session.Cascade.SelectDistrict(c.Request.Context(), req.Code, req.Name)
		if err != nil {
			if errors.Is(err, wizard.ErrNoProvince) {
				respondWithError(c, http.StatusConflict, "ADDRESS", "select a province first")
				return
			}
			log.Println("[ADDRESS] [ERROR] ward fetch failed:", err)
			respondWithError(c, http.StatusBadGateway, "ADDRESS", "could not load wards")
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": options})
	}
}

// SelectWard records the terminal level. Nothing is fetched below it.
func SelectWard(m *wizard.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "ADDRESS")

		session, ok := requireSession(c, m)
		if !ok {
			return
		}

		var req levelSelectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if err := session.Cascade.SelectWard(req.Code, req.Name); err != nil {
			respondWithError(c, http.StatusConflict, "ADDRESS", "select a district first")
			return
		}

		c.JSON(http.StatusOK, gin.H{"selection": session.Cascade.Selection()})
	}
}

// RestoreAddress rebuilds the cascade's option lists for a resumed draft
// that only carries the terminal codes.
func RestoreAddress(m *wizard.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "ADDRESS")

		session, ok := requireSession(c, m)
		if !ok {
			return
		}

		draft := session.Draft()
		if draft.ProvinceCode == "" || draft.DistrictCode == "" || draft.WardCode == "" {
			respondWithError(c, http.StatusBadRequest, "ADDRESS", "draft has no complete address to restore")
			return
		}

		if err := session.Cascade.Restore(c.Request.Context(), draft.ProvinceCode, draft.DistrictCode, draft.WardCode); err != nil {
			if errors.Is(err, wizard.ErrNotInList) {
				respondWithError(c, http.StatusConflict, "ADDRESS", "saved address is no longer valid")
				return
			}
			log.Println("[ADDRESS] [ERROR] restore failed:", err)
			respondWithError(c, http.StatusBadGateway, "ADDRESS", "address directory unavailable")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"selection": session.Cascade.Selection(),
			"districts": session.Cascade.Districts(),
			"wards":     session.Cascade.Wards(),
		})
	}
}
