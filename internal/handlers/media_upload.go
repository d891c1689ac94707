package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"backend/internal/wizard"
)

// StageSlotFiles accepts multipart files for one upload slot, writes them to
// staging storage and registers them with the coordinator. Nothing is sent
// to the catalog backend until the media step is committed.
func StageSlotFiles(m *wizard.Manager, stagingDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "MEDIA")

		session, ok := requireSession(c, m)
		if !ok {
			return
		}

		if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
			log.Println("[MEDIA] [ERROR] multipart parse failed:", err)
			respondWithError(c, http.StatusBadRequest, "MEDIA", "invalid multipart body")
			return
		}

		form := c.Request.MultipartForm
		headers := form.File["files"]
		if len(headers) == 0 {
			respondWithError(c, http.StatusBadRequest, "MEDIA", "no files provided")
			return
		}

		slot := c.Param("slot")
		files := make([]wizard.StagedFile, 0, len(headers))
		for _, header := range headers {
			path, err := saveStagedImage(header, stagingDir, session.ID)
			if err != nil {
				log.Println("[MEDIA] [ERROR] staging failed:", err)
				respondWithError(c, http.StatusBadRequest, "MEDIA", err.Error())
				return
			}
			files = append(files, wizard.StagedFile{
				Name: header.Filename,
				Path: path,
				Size: header.Size,
			})
		}

		staged, err := session.Media.SelectFiles(slot, files)
		if err != nil {
			for _, f := range files {
				if removeErr := safeDeleteStaged(stagingDir, f.Path); removeErr != nil {
					log.Println("[MEDIA] [ERROR] staging cleanup failed:", removeErr)
				}
			}
			if errors.Is(err, wizard.ErrUnknownSlot) {
				respondWithError(c, http.StatusNotFound, "MEDIA", "unknown slot: "+slot)
				return
			}
			respondWithError(c, http.StatusBadRequest, "MEDIA", err.Error())
			return
		}

		log.Printf("[MEDIA] [INFO] staged %d file(s) for slot %s", len(staged), slot)
		c.JSON(http.StatusOK, gin.H{"slot": slot, "files": staged})
	}
}

// CommitMediaStep uploads every staged slot. Slots succeed or fail
// independently; the step advances only when none failed.
func CommitMediaStep(m *wizard.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "MEDIA")

		session, ok := requireSession(c, m)
		if !ok {
			return
		}

		results, err := session.CommitMedia(c.Request.Context())
		if err != nil {
			respondCommitError(c, "MEDIA", err)
			return
		}

		report := make([]gin.H, 0, len(results))
		failed := false
		for _, r := range results {
			entry := gin.H{"slot": r.Slot}
			if r.Err != nil {
				failed = true
				entry["error"] = r.Err.Error()
			} else {
				entry["urls"] = r.URLs
			}
			report = append(report, entry)
		}

		status := http.StatusOK
		if failed {
			// Partial success: the draft keeps what succeeded, the client
			// restages and retries the failed slots.
			status = http.StatusMultiStatus
		}
		c.JSON(status, gin.H{
			"results":  report,
			"step":     session.Step().String(),
			"stepPath": wizard.PathForStep(session.Step()),
		})
	}
}

func saveStagedImage(file *multipart.FileHeader, stagingDir, sessionID string) (string, error) {
	extension := strings.ToLower(filepath.Ext(file.Filename))
	if extension == "" {
		return "", fmt.Errorf("image file extension is required")
	}
	allowedExtensions := map[string]struct{}{
		".jpg":  {},
		".jpeg": {},
		".png":  {},
		".webp": {},
	}
	if _, ok := allowedExtensions[extension]; !ok {
		return "", fmt.Errorf("unsupported image type: %s", extension)
	}
	const maxImageSize = 5 << 20
	if file.Size > maxImageSize {
		return "", fmt.Errorf("image file too large (max 5MB)")
	}

	dir := filepath.Join(stagingDir, sessionID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("[MEDIA] saveStagedImage: failed to create directory %s: %v", dir, err)
		return "", err
	}

	fullPath := filepath.Join(dir, uuid.NewString()+extension)

	out, err := os.Create(fullPath)
	if err != nil {
		log.Printf("[MEDIA] saveStagedImage: failed to create file %s: %v", fullPath, err)
		return "", err
	}
	defer out.Close()

	in, err := file.Open()
	if err != nil {
		log.Printf("[MEDIA] saveStagedImage: failed to open upload %s: %v", file.Filename, err)
		return "", err
	}
	defer in.Close()

	if _, err := io.Copy(out, in); err != nil {
		log.Printf("[MEDIA] saveStagedImage: failed to save file %s: %v", fullPath, err)
		return "", err
	}

	return fullPath, nil
}
