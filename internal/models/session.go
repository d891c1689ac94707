package models

import "time"

// OnboardingSession is the durable part of a wizard session. The full draft
// lives in memory; only the identifiers later steps cannot recover on their
// own (account email, created category id) survive a restart, mirroring the
// two-lifetime split of the original flow.
type OnboardingSession struct {
	ID         string    `bson:"_id" json:"id"`
	Step       int       `bson:"step" json:"step"`
	Email      string    `bson:"email,omitempty" json:"email,omitempty"`
	CategoryID string    `bson:"idCategory,omitempty" json:"idCategory,omitempty"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}
