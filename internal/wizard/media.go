package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Upload slots. Avatar and certificate take a single file, the gallery takes
// many; they go through distinct upload calls.
const (
	SlotAvatar      = "avatar"
	SlotCertificate = "certificate"
	SlotGallery     = "gallery"
)

var slotOrder = []string{SlotAvatar, SlotCertificate, SlotGallery}

var ErrUnknownSlot = errors.New("unknown media slot")

// MediaUploader is the slice of the catalog backend the coordinator needs.
type MediaUploader interface {
	UploadImage(ctx context.Context, filePath, ownerKey string) (string, error)
	UploadImages(ctx context.Context, filePaths []string, ownerKey string) ([]string, error)
}

// StagedFile is one local file awaiting upload, with its preview reference.
type StagedFile struct {
	Name       string `json:"name"`
	Path       string `json:"-"`
	Size       int64  `json:"size"`
	PreviewRef string `json:"previewRef"`
}

// SlotResult is the independent outcome of one slot's upload attempt.
type SlotResult struct {
	Slot string   `json:"slot"`
	URLs []string `json:"urls,omitempty"`
	Err  error    `json:"-"`
}

// Media collects files per slot and uploads them at step submission. Preview
// references are acquired on selection and released on slot replacement,
// after the upload attempt, or when the session ends. They are never leaked.
type Media struct {
	mu       sync.Mutex
	uploader MediaUploader
	release  func(StagedFile)
	slots    map[string][]StagedFile
}

// NewMedia builds a coordinator. release is invoked exactly once per staged
// file when its preview is no longer displayed; nil means no cleanup.
func NewMedia(uploader MediaUploader, release func(StagedFile)) *Media {
	if release == nil {
		release = func(StagedFile) {}
	}
	return &Media{
		uploader: uploader,
		release:  release,
		slots:    map[string][]StagedFile{},
	}
}

// SelectFiles stages files for a slot and assigns preview references.
// Re-selecting a slot releases the previews of whatever it replaces. No
// upload happens here.
func (m *Media) SelectFiles(slot string, files []StagedFile) ([]StagedFile, error) {
	if !knownSlot(slot) {
		return nil, ErrUnknownSlot
	}
	if slot != SlotGallery && len(files) > 1 {
		return nil, fmt.Errorf("slot %s accepts a single file", slot)
	}

	staged := make([]StagedFile, len(files))
	for i, f := range files {
		f.PreviewRef = uuid.NewString()
		staged[i] = f
	}

	m.mu.Lock()
	replaced := m.slots[slot]
	m.slots[slot] = staged
	m.mu.Unlock()

	for _, f := range replaced {
		m.release(f)
	}
	return staged, nil
}

// Staged returns the files currently staged for a slot.
func (m *Media) Staged(slot string) []StagedFile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]StagedFile(nil), m.slots[slot]...)
}

// UploadAll uploads every populated slot for the given owner identity. Slots
// fail or succeed independently: one slot's failure never stops the others
// from being attempted. Win or lose, a slot's batch is consumed by the
// attempt; retrying a failed slot means re-selecting its files.
func (m *Media) UploadAll(ctx context.Context, ownerKey string) []SlotResult {
	m.mu.Lock()
	batches := make(map[string][]StagedFile, len(m.slots))
	for slot, files := range m.slots {
		if len(files) > 0 {
			batches[slot] = files
		}
	}
	m.slots = map[string][]StagedFile{}
	m.mu.Unlock()

	results := make([]SlotResult, 0, len(batches))
	for _, slot := range slotOrder {
		files, ok := batches[slot]
		if !ok {
			continue
		}

		result := SlotResult{Slot: slot}
		if slot == SlotGallery {
			paths := make([]string, len(files))
			for i, f := range files {
				paths[i] = f.Path
			}
			result.URLs, result.Err = m.uploader.UploadImages(ctx, paths, ownerKey)
		} else {
			url, err := m.uploader.UploadImage(ctx, files[0].Path, ownerKey)
			if err == nil {
				result.URLs = []string{url}
			}
			result.Err = err
		}
		results = append(results, result)

		for _, f := range files {
			m.release(f)
		}
	}
	return results
}

// ReleaseAll drops every staged file and releases its preview. Called on
// step exit and session end.
func (m *Media) ReleaseAll() {
	m.mu.Lock()
	dropped := m.slots
	m.slots = map[string][]StagedFile{}
	m.mu.Unlock()

	for _, files := range dropped {
		for _, f := range files {
			m.release(f)
		}
	}
}

func knownSlot(slot string) bool {
	for _, s := range slotOrder {
		if s == slot {
			return true
		}
	}
	return false
}
