package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"backend/internal/models"
	"backend/internal/wizard"
)

type registerStepRequest struct {
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
	Phone           string `json:"phone" binding:"required"`
	ProvinceCode    string `json:"provinceCode"`
	DistrictCode    string `json:"districtCode"`
	WardCode        string `json:"wardCode"`
}

type detailsStepRequest struct {
	Name        string                  `json:"name" binding:"required"`
	Description string                  `json:"description"`
	Website     string                  `json:"website"`
	Hours       []models.OperatingHours `json:"hours"`
}

// StartOnboarding opens a new wizard session and returns its bearer token.
func StartOnboarding(m *wizard.Manager, jwtSecret string, tokenTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "ONBOARDING")

		session, err := m.Start(c.Request.Context())
		if err != nil {
			log.Println("[ONBOARDING] [ERROR] session start failed:", err)
			respondWithError(c, http.StatusInternalServerError, "ONBOARDING", "could not start onboarding")
			return
		}

		claims := jwt.MapClaims{
			"sessionId": session.ID,
			"exp":       time.Now().Add(tokenTTL).Unix(),
			"iat":       time.Now().Unix(),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtSecret))
		if err != nil {
			log.Println("[ONBOARDING] [ERROR] token generation failed:", err)
			respondWithError(c, http.StatusInternalServerError, "ONBOARDING", "token generation failed")
			return
		}

		log.Println("[ONBOARDING] [INFO] session started:", session.ID)
		c.JSON(http.StatusCreated, gin.H{
			"sessionId": session.ID,
			"token":     token,
			"step":      session.Step().String(),
			"stepPath":  wizard.PathForStep(session.Step()),
		})
	}
}

// GetOnboardingState reports the step, draft and collaborator state the
// client needs to render the wizard after a reload.
func GetOnboardingState(m *wizard.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "ONBOARDING")

		session, ok := requireSession(c, m)
		if !ok {
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"sessionId": session.ID,
			"step":      session.Step().String(),
			"stepPath":  wizard.PathForStep(session.Step()),
			"draft":     session.Draft(),
			"address":   session.Cascade.Selection(),
			"tags":      session.Tags.Confirmed(),
		})
	}
}

// CommitRegisterStep runs the registration step commit.
func CommitRegisterStep(m *wizard.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "ONBOARDING")

		session, ok := requireSession(c, m)
		if !ok {
			return
		}

		var req registerStepRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		vr, err := session.CommitRegister(c.Request.Context(), wizard.RegisterPayload{
			Email:           req.Email,
			Password:        req.Password,
			ConfirmPassword: req.ConfirmPassword,
			Phone:           req.Phone,
			ProvinceCode:    req.ProvinceCode,
			DistrictCode:    req.DistrictCode,
			WardCode:        req.WardCode,
		})
		if err != nil {
			log.Println("[ONBOARDING] [ERROR] register step failed:", err)
			respondCommitError(c, "ONBOARDING", err)
			return
		}
		if !vr.Valid {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": vr.Errors})
			return
		}

		log.Println("[ONBOARDING] [INFO] register step committed for session:", session.ID)
		c.JSON(http.StatusOK, gin.H{
			"step":     session.Step().String(),
			"stepPath": wizard.PathForStep(session.Step()),
		})
	}
}

// CommitDetailsStep commits the descriptive step.
func CommitDetailsStep(m *wizard.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "ONBOARDING")

		session, ok := requireSession(c, m)
		if !ok {
			return
		}

		var req detailsStepRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		payload := wizard.DetailsPayload{
			Name:        req.Name,
			Description: req.Description,
			Website:     req.Website,
			Hours:       req.Hours,
		}

		vr, err := session.CommitDetails(c.Request.Context(), payload)
		if err != nil {
			respondCommitError(c, "ONBOARDING", err)
			return
		}
		if !vr.Valid {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": vr.Errors})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"step":     session.Step().String(),
			"stepPath": wizard.PathForStep(session.Step()),
		})
	}
}

// FinalizeOnboarding submits the completed draft as the new shop.
func FinalizeOnboarding(m *wizard.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "ONBOARDING")

		session, ok := requireSession(c, m)
		if !ok {
			return
		}

		if err := session.Finalize(c.Request.Context()); err != nil {
			log.Println("[ONBOARDING] [ERROR] finalize failed:", err)
			respondCommitError(c, "ONBOARDING", err)
			return
		}

		log.Println("[ONBOARDING] [INFO] shop created for session:", session.ID)
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "shop created"})
	}
}

// AbandonOnboarding discards the session and everything it staged.
func AbandonOnboarding(m *wizard.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "ONBOARDING")

		sessionID, ok := c.Get("sessionId")
		if !ok {
			respondWithError(c, http.StatusUnauthorized, "ONBOARDING", "unauthorized")
			return
		}

		if err := m.End(c.Request.Context(), sessionID.(string)); err != nil {
			log.Println("[ONBOARDING] [ERROR] abandon failed:", err)
			respondWithError(c, http.StatusInternalServerError, "ONBOARDING", "could not abandon session")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
