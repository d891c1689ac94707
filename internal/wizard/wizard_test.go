package wizard

import (
	"context"
	"fmt"
	"sync"

	"backend/internal/catalog"
	"backend/internal/models"
)

// fakeCatalog is an in-memory stand-in for the catalog backend used across
// the package tests.
type fakeCatalog struct {
	mu sync.Mutex

	provinces []models.AddressOption
	districts map[string][]models.AddressOption
	wards     map[string][]models.AddressOption
	// gates block a district fetch until the test releases it, to exercise
	// in-flight staleness.
	districtGates map[string]chan struct{}
	districtErr   map[string]error
	districtCalls []string

	suggestions   map[string][]string
	suggestGates  map[string]chan struct{}
	suggestedKeys []string

	validateErr error
	createID    string
	createErr   error
	createCalls int

	registerErr   error
	registerCalls []catalog.AccountRegistration

	uploadURLs map[string]string
	uploadErrs map[string]error

	finalizeErr   error
	finalizedWith []models.ShopDraft
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		districts:     map[string][]models.AddressOption{},
		wards:         map[string][]models.AddressOption{},
		districtGates: map[string]chan struct{}{},
		districtErr:   map[string]error{},
		suggestions:   map[string][]string{},
		suggestGates:  map[string]chan struct{}{},
		uploadURLs:    map[string]string{},
		uploadErrs:    map[string]error{},
	}
}

func (f *fakeCatalog) ListProvinces(ctx context.Context) ([]models.AddressOption, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.provinces, nil
}

func (f *fakeCatalog) ListDistricts(ctx context.Context, provinceCode string) ([]models.AddressOption, error) {
	f.mu.Lock()
	f.districtCalls = append(f.districtCalls, provinceCode)
	gate := f.districtGates[provinceCode]
	err := f.districtErr[provinceCode]
	options := f.districts[provinceCode]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return options, nil
}

func (f *fakeCatalog) ListWards(ctx context.Context, districtCode string) ([]models.AddressOption, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.wards[districtCode], nil
}

func (f *fakeCatalog) SuggestTags(ctx context.Context, parentCategoryID, keyword string) ([]string, error) {
	f.mu.Lock()
	gate := f.suggestGates[keyword]
	f.suggestedKeys = append(f.suggestedKeys, keyword)
	results := f.suggestions[keyword]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return results, nil
}

func (f *fakeCatalog) suggestedKeywords() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.suggestedKeys...)
}

func (f *fakeCatalog) districtCalled(provinceCode string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, code := range f.districtCalls {
		if code == provinceCode {
			return true
		}
	}
	return false
}

func (f *fakeCatalog) ValidateTags(ctx context.Context, parentCategoryID string, tags []string) error {
	return f.validateErr
}

func (f *fakeCatalog) CreateCategory(ctx context.Context, parentCategoryID string, tags []string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	f.createCalls++
	return f.createID, nil
}

func (f *fakeCatalog) RegisterShopAccount(ctx context.Context, reg catalog.AccountRegistration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.registerErr != nil {
		return f.registerErr
	}
	f.registerCalls = append(f.registerCalls, reg)
	return nil
}

func (f *fakeCatalog) UploadImage(ctx context.Context, filePath, ownerKey string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.uploadErrs[filePath]; err != nil {
		return "", err
	}
	if url, ok := f.uploadURLs[filePath]; ok {
		return url, nil
	}
	return "https://cdn.example/" + filePath, nil
}

func (f *fakeCatalog) UploadImages(ctx context.Context, filePaths []string, ownerKey string) ([]string, error) {
	urls := make([]string, 0, len(filePaths))
	for _, p := range filePaths {
		url, err := f.UploadImage(ctx, p, ownerKey)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (f *fakeCatalog) FinalizeShop(ctx context.Context, draft models.ShopDraft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.finalizeErr != nil {
		return f.finalizeErr
	}
	f.finalizedWith = append(f.finalizedWith, draft)
	return nil
}

// memStore is an in-memory SessionStore.
type memStore struct {
	mu   sync.Mutex
	docs map[string]models.OnboardingSession
}

func newMemStore() *memStore {
	return &memStore{docs: map[string]models.OnboardingSession{}}
}

func (s *memStore) Save(ctx context.Context, session models.OnboardingSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[session.ID] = session
	return nil
}

func (s *memStore) Find(ctx context.Context, id string) (models.OnboardingSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok {
		return models.OnboardingSession{}, fmt.Errorf("no session %s", id)
	}
	return doc, nil
}

func (s *memStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
	return nil
}
