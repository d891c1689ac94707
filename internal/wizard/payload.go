package wizard

import (
	"strings"
	"time"

	"backend/internal/models"
)

// StepPayload is the typed record one wizard step commits into the draft.
// apply writes only the payload's own fields, which is what makes draft
// merges additive-only: a step physically cannot clear another step's data.
type StepPayload interface {
	Step() Step
	Validate() map[string]string
	apply(d *models.ShopDraft)
}

// RegisterPayload is the account-registration step input. The location codes
// come out of the address cascade on the same page; the account is created
// with them.
type RegisterPayload struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Phone           string `json:"phone"`
	ProvinceCode    string `json:"provinceCode"`
	DistrictCode    string `json:"districtCode"`
	WardCode        string `json:"wardCode"`

	// accountRef is the bcrypt-derived reference the session fills in after
	// the remote registration succeeds. The raw password never reaches the
	// draft.
	accountRef string
}

func (p RegisterPayload) Step() Step { return StepRegister }

func (p RegisterPayload) Validate() map[string]string {
	errs := map[string]string{}

	email := strings.TrimSpace(p.Email)
	if email == "" {
		errs["email"] = "email is required"
	} else if !strings.Contains(email, "@") {
		errs["email"] = "email is invalid"
	}

	if p.Password == "" {
		errs["password"] = "password is required"
	} else if len(p.Password) < 6 {
		errs["password"] = "password must be at least 6 characters"
	} else if p.Password != p.ConfirmPassword {
		errs["confirmPassword"] = "passwords do not match"
	}

	if strings.TrimSpace(p.Phone) == "" {
		errs["phone"] = "phone is required"
	}
	if strings.TrimSpace(p.ProvinceCode) == "" {
		errs["provinceCode"] = "province is required"
	}
	if strings.TrimSpace(p.DistrictCode) == "" {
		errs["districtCode"] = "district is required"
	}
	if strings.TrimSpace(p.WardCode) == "" {
		errs["wardCode"] = "ward is required"
	}

	return errs
}

func (p RegisterPayload) apply(d *models.ShopDraft) {
	d.Email = strings.ToLower(strings.TrimSpace(p.Email))
	d.Phone = strings.TrimSpace(p.Phone)
	d.AccountRef = p.accountRef
	d.ProvinceCode = p.ProvinceCode
	d.DistrictCode = p.DistrictCode
	d.WardCode = p.WardCode
}

// CategoryPayload is the category step input. categoryID is filled in by the
// session once the remote create call has succeeded; it is never accepted
// from the client.
type CategoryPayload struct {
	ParentCategoryID string   `json:"parentCategoryId"`
	Tags             []string `json:"tags"`

	categoryID string
}

func (p CategoryPayload) Step() Step { return StepCategory }

func (p CategoryPayload) Validate() map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(p.ParentCategoryID) == "" {
		errs["parentCategoryId"] = "parent category is required"
	}
	if len(p.Tags) == 0 {
		errs["tags"] = "at least one tag is required"
	}
	return errs
}

func (p CategoryPayload) apply(d *models.ShopDraft) {
	d.ParentCategoryID = p.ParentCategoryID
	d.Tags = append([]string(nil), p.Tags...)
	d.CategoryID = p.categoryID
}

// MediaPayload carries the URLs the upload coordinator obtained per slot.
// Empty fields are skipped so a partial retry of one slot cannot erase the
// URL an earlier attempt already won for another slot.
type MediaPayload struct {
	AvatarURL      string   `json:"avatarUrl"`
	CertificateURL string   `json:"certificateUrl"`
	GalleryURLs    []string `json:"galleryUrls"`
}

func (p MediaPayload) Step() Step { return StepMedia }

func (p MediaPayload) Validate() map[string]string {
	return map[string]string{}
}

func (p MediaPayload) apply(d *models.ShopDraft) {
	if p.AvatarURL != "" {
		d.AvatarURL = p.AvatarURL
	}
	if p.CertificateURL != "" {
		d.CertificateURL = p.CertificateURL
	}
	if len(p.GalleryURLs) > 0 {
		d.GalleryURLs = append([]string(nil), p.GalleryURLs...)
	}
}

// DetailsPayload is the descriptive step input.
type DetailsPayload struct {
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Website     string                  `json:"website"`
	Hours       []models.OperatingHours `json:"hours"`
}

func (p DetailsPayload) Step() Step { return StepDetails }

func (p DetailsPayload) Validate() map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(p.Name) == "" {
		errs["name"] = "name is required"
	}
	for _, h := range p.Hours {
		if strings.TrimSpace(h.Day) == "" {
			errs["hours"] = "hours entry is missing a day"
			break
		}
		open, err := time.Parse("15:04", h.Open)
		if err != nil {
			errs["hours"] = "opening time must be HH:MM"
			break
		}
		closeAt, err := time.Parse("15:04", h.Close)
		if err != nil {
			errs["hours"] = "closing time must be HH:MM"
			break
		}
		if !open.Before(closeAt) {
			errs["hours"] = "opening time must be before closing time"
			break
		}
	}
	return errs
}

func (p DetailsPayload) apply(d *models.ShopDraft) {
	d.Name = strings.TrimSpace(p.Name)
	d.Description = strings.TrimSpace(p.Description)
	d.Website = strings.TrimSpace(p.Website)
	d.Hours = append([]models.OperatingHours(nil), p.Hours...)
}
