package wizard

import (
	"sync"

	"backend/internal/models"
)

// Draft is the single source of truth for the in-progress shop record during
// a wizard session. Commits are strictly sequential, one step at a time,
// but the HTTP layer may read while a commit runs, hence the lock.
type Draft struct {
	mu   sync.Mutex
	data models.ShopDraft
}

func NewDraft() *Draft {
	return &Draft{}
}

// Commit merges a validated step payload into the draft. Validation is the
// caller's responsibility; Commit never rejects.
func (d *Draft) Commit(p StepPayload) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p.apply(&d.data)
}

// Snapshot returns a copy of the draft as of the most recent commit.
// In-progress edits on the active step are invisible until committed.
func (d *Draft) Snapshot() models.ShopDraft {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := d.data
	out.Tags = append([]string(nil), d.data.Tags...)
	out.Hours = append([]models.OperatingHours(nil), d.data.Hours...)
	out.GalleryURLs = append([]string(nil), d.data.GalleryURLs...)
	return out
}

// Clear resets the draft to empty. Calling it on an already-empty draft is a
// no-op, so completion and explicit abandon can share it.
func (d *Draft) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.data = models.ShopDraft{}
}

// seed pre-populates the draft from durable session keys when a session is
// resumed after a restart. Only the identifiers survive; everything else has
// to be re-entered or re-fetched.
func (d *Draft) seed(email, categoryID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if email != "" {
		d.data.Email = email
	}
	if categoryID != "" {
		d.data.CategoryID = categoryID
	}
}
