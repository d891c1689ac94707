package wizard

import (
	"context"
	"errors"
	"sync"

	"backend/internal/models"
)

var (
	ErrNoProvince = errors.New("no province selected")
	ErrNoDistrict = errors.New("no district selected")
	ErrNotInList  = errors.New("code not present in option list")
)

// AddressDirectory is the slice of the catalog backend the cascade needs.
type AddressDirectory interface {
	ListProvinces(ctx context.Context) ([]models.AddressOption, error)
	ListDistricts(ctx context.Context, provinceCode string) ([]models.AddressOption, error)
	ListWards(ctx context.Context, districtCode string) ([]models.AddressOption, error)
}

// Cascade maintains the dependent province → district → ward selection and
// its option lists. Selecting a level resets everything below it before the
// child fetch is dispatched, so a stale child list is never observable.
type Cascade struct {
	mu        sync.Mutex
	directory AddressDirectory

	selection models.AddressSelection
	districts []models.AddressOption
	wards     []models.AddressOption
}

func NewCascade(directory AddressDirectory) *Cascade {
	return &Cascade{directory: directory}
}

// SelectProvince sets the province, drops the district and ward selections
// and their option lists, then fetches the district list for the new code.
// A failed fetch keeps the province selected with an empty district list.
func (c *Cascade) SelectProvince(ctx context.Context, code, name string) ([]models.AddressOption, error) {
	c.mu.Lock()
	c.selection.Province = models.AddressOption{Code: code, Name: name}
	c.selection.District = models.AddressOption{}
	c.selection.Ward = models.AddressOption{}
	c.districts = nil
	c.wards = nil
	c.mu.Unlock()

	options, err := c.directory.ListDistricts(ctx, code)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// A newer selection may have landed while the fetch was in flight.
	if c.selection.Province.Code != code {
		return nil, nil
	}
	c.districts = options
	return append([]models.AddressOption(nil), options...), nil
}

// SelectDistrict sets the district, drops the ward selection and list, then
// fetches the ward list for the new code.
func (c *Cascade) SelectDistrict(ctx context.Context, code, name string) ([]models.AddressOption, error) {
	c.mu.Lock()
	if c.selection.Province.Code == "" {
		c.mu.Unlock()
		return nil, ErrNoProvince
	}
	c.selection.District = models.AddressOption{Code: code, Name: name}
	c.selection.Ward = models.AddressOption{}
	c.wards = nil
	c.mu.Unlock()

	options, err := c.directory.ListWards(ctx, code)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selection.District.Code != code {
		return nil, nil
	}
	c.wards = options
	return append([]models.AddressOption(nil), options...), nil
}

// SelectWard sets the ward. There is nothing below it, so no fetch follows.
func (c *Cascade) SelectWard(code, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selection.District.Code == "" {
		return ErrNoDistrict
	}
	c.selection.Ward = models.AddressOption{Code: code, Name: name}
	return nil
}

// Restore rebuilds the cascade for a resumed draft that carries terminal
// codes but no option lists. Lists are re-fetched in dependency order and
// each code must appear in its parent's fetched list.
func (c *Cascade) Restore(ctx context.Context, provinceCode, districtCode, wardCode string) error {
	districts, err := c.directory.ListDistricts(ctx, provinceCode)
	if err != nil {
		return err
	}
	district, ok := findOption(districts, districtCode)
	if !ok {
		return ErrNotInList
	}

	wards, err := c.directory.ListWards(ctx, districtCode)
	if err != nil {
		return err
	}
	ward, ok := findOption(wards, wardCode)
	if !ok {
		return ErrNotInList
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection = models.AddressSelection{
		Province: models.AddressOption{Code: provinceCode},
		District: district,
		Ward:     ward,
	}
	c.districts = districts
	c.wards = wards
	return nil
}

// Selection returns the current three-level selection.
func (c *Cascade) Selection() models.AddressSelection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection
}

// Districts returns the option list for the selected province.
func (c *Cascade) Districts() []models.AddressOption {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.AddressOption(nil), c.districts...)
}

// Wards returns the option list for the selected district.
func (c *Cascade) Wards() []models.AddressOption {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.AddressOption(nil), c.wards...)
}

func findOption(options []models.AddressOption, code string) (models.AddressOption, bool) {
	for _, o := range options {
		if o.Code == code {
			return o, true
		}
	}
	return models.AddressOption{}, false
}
