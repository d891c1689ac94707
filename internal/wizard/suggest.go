package wizard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

var ErrNothingToSubmit = errors.New("no parent category or confirmed tags")

// TagService is the slice of the catalog backend the tag picker needs.
type TagService interface {
	SuggestTags(ctx context.Context, parentCategoryID, keyword string) ([]string, error)
	ValidateTags(ctx context.Context, parentCategoryID string, tags []string) error
	CreateCategory(ctx context.Context, parentCategoryID string, tags []string) (string, error)
}

// TagPicker builds the confirmed tag set under a parent category, with live
// remote suggestions. Suggestion fetches are debounced and carry a
// monotonically increasing token; a response is applied only while its token
// is still the latest, so a slow response for a stale query can never
// overwrite the list. Timer cancellation alone is not trusted for that.
type TagPicker struct {
	mu       sync.Mutex
	tags     TagService
	debounce time.Duration

	parentID    string
	query       string
	seq         uint64
	timer       *time.Timer
	suggestions []string
	fetchErr    error
	confirmed   []string
}

func NewTagPicker(tags TagService, debounce time.Duration) *TagPicker {
	return &TagPicker{tags: tags, debounce: debounce}
}

// SetParent selects the parent category. Switching to a different parent
// starts over with an empty confirmed set: tags are scoped per submission,
// never carried across parents.
func (t *TagPicker) SetParent(parentCategoryID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.parentID == parentCategoryID {
		return
	}
	t.parentID = parentCategoryID
	t.confirmed = nil
	t.resetQueryLocked()
}

// SetQuery updates the free-text query and schedules a debounced suggestion
// fetch. Every call supersedes whatever was pending. An empty query clears
// the list without touching the network.
func (t *TagPicker) SetQuery(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.query = text
	t.seq++
	t.fetchErr = nil
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" || t.parentID == "" {
		t.suggestions = nil
		return
	}

	token := t.seq
	parent := t.parentID
	t.timer = time.AfterFunc(t.debounce, func() {
		t.fetch(token, parent, trimmed)
	})
}

func (t *TagPicker) fetch(token uint64, parent, keyword string) {
	results, err := t.tags.SuggestTags(context.Background(), parent, keyword)

	t.mu.Lock()
	defer t.mu.Unlock()
	if token != t.seq {
		// Superseded while in flight; the response belongs to a stale query.
		return
	}
	if err != nil {
		t.suggestions = nil
		t.fetchErr = err
		return
	}
	t.suggestions = results
}

// Suggestions returns the current suggestion list together with the error of
// the most recent fetch, if it failed.
func (t *TagPicker) Suggestions() ([]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.suggestions...), t.fetchErr
}

// ConfirmTag promotes a suggestion into the confirmed set and clears the
// query and suggestion list. Confirming a tag that is already present is a
// no-op; the set stays unique.
func (t *TagPicker) ConfirmTag(tag string) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for _, existing := range t.confirmed {
		if existing == tag {
			return
		}
	}
	t.confirmed = append(t.confirmed, tag)
	t.resetQueryLocked()
}

// RemoveTag drops a tag from the confirmed set. Removing an absent tag is a
// no-op.
func (t *TagPicker) RemoveTag(tag string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, existing := range t.confirmed {
		if existing == tag {
			t.confirmed = append(t.confirmed[:i], t.confirmed[i+1:]...)
			return
		}
	}
}

// Confirmed returns the confirmed tags in selection order.
func (t *TagPicker) Confirmed() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.confirmed...)
}

// Parent returns the selected parent category id.
func (t *TagPicker) Parent() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.parentID
}

// Submit validates the confirmed set against the parent and, only if that
// succeeds, creates the category. The created id is returned to the caller;
// nothing is committed anywhere on failure.
func (t *TagPicker) Submit(ctx context.Context) (string, error) {
	t.mu.Lock()
	parent := t.parentID
	tags := append([]string(nil), t.confirmed...)
	t.mu.Unlock()

	if parent == "" || len(tags) == 0 {
		return "", ErrNothingToSubmit
	}

	if err := t.tags.ValidateTags(ctx, parent, tags); err != nil {
		return "", err
	}
	return t.tags.CreateCategory(ctx, parent, tags)
}

// Stop cancels any pending debounced fetch. Called when the session ends.
func (t *TagPicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func (t *TagPicker) resetQueryLocked() {
	t.query = ""
	t.suggestions = nil
	t.fetchErr = nil
	t.seq++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
