package wizard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"backend/internal/catalog"
	"backend/internal/models"
)

var (
	ErrStepBusy   = errors.New("a commit is already in flight for this session")
	ErrOutOfOrder = errors.New("step is not the session's current step")
	ErrNotReady   = errors.New("not all steps are committed")
)

// ShopService is the slice of the catalog backend that registers the owner
// account and submits the finished shop.
type ShopService interface {
	RegisterShopAccount(ctx context.Context, reg catalog.AccountRegistration) error
	FinalizeShop(ctx context.Context, draft models.ShopDraft) error
}

// CatalogAPI is everything the wizard needs from the catalog backend.
type CatalogAPI interface {
	AddressDirectory
	TagService
	MediaUploader
	ShopService
}

// Session is one running wizard: the draft, the per-step collaborators and
// the current step. One step commits at a time; a second commit while one is
// in flight is rejected rather than queued, matching the disabled submit
// button of the original flow.
type Session struct {
	ID string

	mu        sync.Mutex
	busy      bool
	step      Step
	createdAt time.Time

	api   CatalogAPI
	store SessionStore

	draft   *Draft
	Cascade *Cascade
	Tags    *TagPicker
	Media   *Media
}

// Step returns the step the session is currently on.
func (s *Session) Step() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// Draft returns the draft as of the most recent step commit.
func (s *Session) Draft() models.ShopDraft {
	return s.draft.Snapshot()
}

func (s *Session) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrStepBusy
	}
	s.busy = true
	return nil
}

func (s *Session) done() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

func (s *Session) requireStep(want Step) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != want {
		return fmt.Errorf("%w: on %s, wanted %s", ErrOutOfOrder, s.step, want)
	}
	return nil
}

func (s *Session) advance(ctx context.Context) {
	s.mu.Lock()
	s.step = s.step.Next()
	s.mu.Unlock()
	s.persist(ctx)
}

// persist writes the durable part of the session: the step reached plus the
// two identifiers a page reload must not lose.
func (s *Session) persist(ctx context.Context) {
	draft := s.draft.Snapshot()
	doc := models.OnboardingSession{
		ID:         s.ID,
		Step:       int(s.Step()),
		Email:      draft.Email,
		CategoryID: draft.CategoryID,
		CreatedAt:  s.createdAt,
		UpdatedAt:  time.Now(),
	}
	if err := s.store.Save(ctx, doc); err != nil {
		// The in-memory session stays authoritative; losing durability only
		// costs resumability after a restart.
		log.Println("[WIZARD] [ERROR] session persist failed:", err)
	}
}

// CommitRegister runs the registration step: local validation, remote
// account creation, then the draft commit. If the payload carries no
// location codes, the cascade's current selection is adopted.
func (s *Session) CommitRegister(ctx context.Context, p RegisterPayload) (ValidationResult, error) {
	if err := s.requireStep(StepRegister); err != nil {
		return ValidationResult{}, err
	}
	if err := s.begin(); err != nil {
		return ValidationResult{}, err
	}
	defer s.done()

	if p.ProvinceCode == "" && p.DistrictCode == "" && p.WardCode == "" {
		sel := s.Cascade.Selection()
		p.ProvinceCode = sel.Province.Code
		p.DistrictCode = sel.District.Code
		p.WardCode = sel.Ward.Code
	}

	vr := ValidateStep(StepRegister, p)
	if !vr.Valid {
		return vr, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return vr, err
	}
	p.accountRef = string(hash)

	err = s.api.RegisterShopAccount(ctx, catalog.AccountRegistration{
		Email:    p.Email,
		Password: p.Password,
		Phone:    p.Phone,
		City:     p.ProvinceCode,
		District: p.DistrictCode,
		Ward:     p.WardCode,
	})
	if err != nil {
		return vr, err
	}

	s.draft.Commit(p)
	s.advance(ctx)
	return vr, nil
}

// CommitCategory submits the tag picker's confirmed set: remote validation,
// remote creation, and only then the draft commit with the created id.
func (s *Session) CommitCategory(ctx context.Context) (ValidationResult, error) {
	if err := s.requireStep(StepCategory); err != nil {
		return ValidationResult{}, err
	}
	if err := s.begin(); err != nil {
		return ValidationResult{}, err
	}
	defer s.done()

	p := CategoryPayload{
		ParentCategoryID: s.Tags.Parent(),
		Tags:             s.Tags.Confirmed(),
	}
	vr := ValidateStep(StepCategory, p)
	if !vr.Valid {
		return vr, nil
	}

	categoryID, err := s.Tags.Submit(ctx)
	if err != nil {
		return vr, err
	}

	p.categoryID = categoryID
	s.draft.Commit(p)
	s.advance(ctx)
	return vr, nil
}

// CommitMedia uploads every staged slot under the account email carried from
// registration. Successful slots are committed into the draft either way;
// the step only advances when no slot failed.
func (s *Session) CommitMedia(ctx context.Context) ([]SlotResult, error) {
	if err := s.requireStep(StepMedia); err != nil {
		return nil, err
	}
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.done()

	ownerKey := s.draft.Snapshot().Email
	results := s.Media.UploadAll(ctx, ownerKey)
	if len(results) == 0 {
		return nil, errors.New("no files staged for upload")
	}

	p := MediaPayload{}
	failed := false
	for _, r := range results {
		if r.Err != nil {
			failed = true
			continue
		}
		switch r.Slot {
		case SlotAvatar:
			p.AvatarURL = r.URLs[0]
		case SlotCertificate:
			p.CertificateURL = r.URLs[0]
		case SlotGallery:
			p.GalleryURLs = r.URLs
		}
	}
	s.draft.Commit(p)

	if failed {
		s.persist(ctx)
		return results, nil
	}
	s.advance(ctx)
	return results, nil
}

// CommitDetails commits the descriptive step. Purely local.
func (s *Session) CommitDetails(ctx context.Context, p DetailsPayload) (ValidationResult, error) {
	if err := s.requireStep(StepDetails); err != nil {
		return ValidationResult{}, err
	}
	if err := s.begin(); err != nil {
		return ValidationResult{}, err
	}
	defer s.done()

	vr := ValidateStep(StepDetails, p)
	if !vr.Valid {
		return vr, nil
	}

	s.draft.Commit(p)
	s.advance(ctx)
	return vr, nil
}

// Finalize submits the whole draft. On success the session is consumed: the
// draft and durable keys are cleared and its resources released.
func (s *Session) Finalize(ctx context.Context) error {
	if err := s.requireStep(StepDone); err != nil {
		return fmt.Errorf("%w: %v", ErrNotReady, err)
	}
	if err := s.begin(); err != nil {
		return err
	}
	defer s.done()

	if err := s.api.FinalizeShop(ctx, s.draft.Snapshot()); err != nil {
		return err
	}

	s.teardown()
	if err := s.store.Delete(ctx, s.ID); err != nil {
		log.Println("[WIZARD] [ERROR] session delete failed:", err)
	}
	return nil
}

// Abandon throws the session away without submitting anything.
func (s *Session) Abandon(ctx context.Context) error {
	s.teardown()
	return s.store.Delete(ctx, s.ID)
}

func (s *Session) teardown() {
	s.draft.Clear()
	s.Tags.Stop()
	s.Media.ReleaseAll()
}
