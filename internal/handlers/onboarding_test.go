package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"backend/internal/catalog"
	"backend/internal/models"
	"backend/internal/wizard"
)

type stubCatalog struct {
	registerErr error
	createID    string
}

func (s *stubCatalog) ListProvinces(ctx context.Context) ([]models.AddressOption, error) {
	return []models.AddressOption{{Code: "79", Name: "Ho Chi Minh"}}, nil
}

func (s *stubCatalog) ListDistricts(ctx context.Context, provinceCode string) ([]models.AddressOption, error) {
	return []models.AddressOption{{Code: "760", Name: "Quan 1"}}, nil
}

func (s *stubCatalog) ListWards(ctx context.Context, districtCode string) ([]models.AddressOption, error) {
	return []models.AddressOption{{Code: "26734", Name: "Ben Nghe"}}, nil
}

func (s *stubCatalog) SuggestTags(ctx context.Context, parentCategoryID, keyword string) ([]string, error) {
	return []string{"pho"}, nil
}

func (s *stubCatalog) ValidateTags(ctx context.Context, parentCategoryID string, tags []string) error {
	return nil
}

func (s *stubCatalog) CreateCategory(ctx context.Context, parentCategoryID string, tags []string) (string, error) {
	return s.createID, nil
}

func (s *stubCatalog) RegisterShopAccount(ctx context.Context, reg catalog.AccountRegistration) error {
	return s.registerErr
}

func (s *stubCatalog) UploadImage(ctx context.Context, filePath, ownerKey string) (string, error) {
	return "https://cdn.example/img.png", nil
}

func (s *stubCatalog) UploadImages(ctx context.Context, filePaths []string, ownerKey string) ([]string, error) {
	return []string{"https://cdn.example/img.png"}, nil
}

func (s *stubCatalog) FinalizeShop(ctx context.Context, draft models.ShopDraft) error {
	return nil
}

type stubStore struct {
	mu   sync.Mutex
	docs map[string]models.OnboardingSession
}

func newStubStore() *stubStore {
	return &stubStore{docs: map[string]models.OnboardingSession{}}
}

func (s *stubStore) Save(ctx context.Context, session models.OnboardingSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[session.ID] = session
	return nil
}

func (s *stubStore) Find(ctx context.Context, id string) (models.OnboardingSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok {
		return models.OnboardingSession{}, errors.New("not found")
	}
	return doc, nil
}

func (s *stubStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
	return nil
}

func newTestManager(api wizard.CatalogAPI) *wizard.Manager {
	return wizard.NewManager(api, newStubStore(), time.Millisecond, nil)
}

// testRouter wires the onboarding routes with the auth middleware replaced
// by a stub that injects the session id directly.
func testRouter(m *wizard.Manager, sessionID, stagingDir string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("sessionId", sessionID)
		c.Next()
	})
	r.GET("/onboarding/state", GetOnboardingState(m))
	r.POST("/onboarding/steps/register", CommitRegisterStep(m))
	r.POST("/onboarding/steps/category", CommitCategoryStep(m))
	r.POST("/onboarding/steps/info", CommitDetailsStep(m))
	r.POST("/onboarding/media/:slot", StageSlotFiles(m, stagingDir))
	return r
}

func postJSON(r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStartOnboardingIssuesSessionToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := newTestManager(&stubCatalog{})

	r := gin.New()
	r.POST("/onboarding/start", StartOnboarding(m, "test-secret", time.Hour))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/onboarding/start", nil))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		SessionID string `json:"sessionId"`
		Token     string `json:"token"`
		Step      string `json:"step"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.SessionID == "" || resp.Token == "" {
		t.Fatalf("expected session id and token, got %+v", resp)
	}
	if resp.Step != "register" {
		t.Fatalf("expected wizard to start on register, got %q", resp.Step)
	}
}

func TestCommitRegisterStepMissingFields(t *testing.T) {
	m := newTestManager(&stubCatalog{})
	s, err := m.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	r := testRouter(m, s.ID, t.TempDir())

	w := postJSON(r, "/onboarding/steps/register", gin.H{"email": "owner@example.com"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "password is required") {
		t.Fatalf("expected binding detail, got %s", w.Body.String())
	}
}

func TestCommitRegisterStepPasswordMismatch(t *testing.T) {
	api := &stubCatalog{registerErr: errors.New("must not be called")}
	m := newTestManager(api)
	s, err := m.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	r := testRouter(m, s.ID, t.TempDir())

	w := postJSON(r, "/onboarding/steps/register", gin.H{
		"email":           "owner@example.com",
		"password":        "secret1",
		"confirmPassword": "secret2",
		"phone":           "0901234567",
		"provinceCode":    "79",
		"districtCode":    "760",
		"wardCode":        "26734",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "confirmPassword") {
		t.Fatalf("expected confirmPassword field error, got %s", w.Body.String())
	}
	if s.Step() != wizard.StepRegister {
		t.Fatalf("step must not advance on local validation failure")
	}
}

func TestCommitRegisterThenCategoryFlow(t *testing.T) {
	api := &stubCatalog{createID: "cat-123"}
	m := newTestManager(api)
	s, err := m.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	r := testRouter(m, s.ID, t.TempDir())

	w := postJSON(r, "/onboarding/steps/register", gin.H{
		"email":           "owner@example.com",
		"password":        "secret1",
		"confirmPassword": "secret1",
		"phone":           "0901234567",
		"provinceCode":    "79",
		"districtCode":    "760",
		"wardCode":        "26734",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("register commit failed: %d %s", w.Code, w.Body.String())
	}

	s.Tags.SetParent("food")
	s.Tags.ConfirmTag("pho")
	s.Tags.ConfirmTag("bun-cha")

	w = postJSON(r, "/onboarding/steps/category", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("category commit failed: %d %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "cat-123") {
		t.Fatalf("expected created category id in response, got %s", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "/create-shop/image") {
		t.Fatalf("expected navigation to the image step, got %s", w.Body.String())
	}
}

func TestCommitCategoryStepOutOfOrder(t *testing.T) {
	m := newTestManager(&stubCatalog{})
	s, err := m.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	r := testRouter(m, s.ID, t.TempDir())

	w := postJSON(r, "/onboarding/steps/category", nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for out-of-order commit, got %d: %s", w.Code, w.Body.String())
	}
}

func TestStageSlotFilesRejectsUnknownSlot(t *testing.T) {
	m := newTestManager(&stubCatalog{})
	s, err := m.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	r := testRouter(m, s.ID, t.TempDir())

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile("files", "a.png")
	fmt.Fprint(part, "not-really-a-png")
	_ = writer.Close()

	req := httptest.NewRequest("POST", "/onboarding/media/banner", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown slot, got %d: %s", w.Code, w.Body.String())
	}
}

func TestStageSlotFilesRejectsBadExtension(t *testing.T) {
	m := newTestManager(&stubCatalog{})
	s, err := m.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	r := testRouter(m, s.ID, t.TempDir())

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile("files", "malware.exe")
	fmt.Fprint(part, "nope")
	_ = writer.Close()

	req := httptest.NewRequest("POST", "/onboarding/media/avatar", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad extension, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetOnboardingStateReflectsDraft(t *testing.T) {
	m := newTestManager(&stubCatalog{})
	s, err := m.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	r := testRouter(m, s.ID, t.TempDir())

	req := httptest.NewRequest("GET", "/onboarding/state", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "/create-shop/register") {
		t.Fatalf("expected register step path, got %s", w.Body.String())
	}
}
