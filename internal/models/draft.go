package models

// ShopDraft is the accumulating record of a shop being created. Step commits
// shallow-merge into it; a committed field is only ever overwritten by a later
// step that carries the same field itself.
type ShopDraft struct {
	Email      string `bson:"email,omitempty" json:"email,omitempty"`
	AccountRef string `bson:"accountRef,omitempty" json:"accountRef,omitempty"`
	Phone      string `bson:"phone,omitempty" json:"phone,omitempty"`

	ProvinceCode string `bson:"provinceCode,omitempty" json:"provinceCode,omitempty"`
	DistrictCode string `bson:"districtCode,omitempty" json:"districtCode,omitempty"`
	WardCode     string `bson:"wardCode,omitempty" json:"wardCode,omitempty"`

	ParentCategoryID string   `bson:"parentCategoryId,omitempty" json:"parentCategoryId,omitempty"`
	Tags             []string `bson:"tags,omitempty" json:"tags,omitempty"`
	CategoryID       string   `bson:"idCategory,omitempty" json:"idCategory,omitempty"`

	Name        string           `bson:"name,omitempty" json:"name,omitempty"`
	Description string           `bson:"description,omitempty" json:"description,omitempty"`
	Website     string           `bson:"website,omitempty" json:"website,omitempty"`
	Hours       []OperatingHours `bson:"hours,omitempty" json:"hours,omitempty"`

	AvatarURL      string   `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	CertificateURL string   `bson:"certificateUrl,omitempty" json:"certificateUrl,omitempty"`
	GalleryURLs    []string `bson:"galleryUrls,omitempty" json:"galleryUrls,omitempty"`
}

// OperatingHours is one weekday entry of the shop's opening schedule.
// Open and Close are "HH:MM" in the shop's local time.
type OperatingHours struct {
	Day   string `bson:"day" json:"day"`
	Open  string `bson:"open" json:"open"`
	Close string `bson:"close" json:"close"`
}
