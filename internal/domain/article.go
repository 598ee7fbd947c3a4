package domain

import "time"

// Status represents an article's position in the approval lifecycle.
type Status string

const (
	// StatusPending marks a freshly submitted article awaiting moderation.
	StatusPending Status = "pending"
	// StatusApproved marks an article visible to the public and frozen for its author.
	StatusApproved Status = "approved"
	// StatusDeclined marks an article rejected by moderation.
	StatusDeclined Status = "declined"
)

// ValidStatus reports whether s is a recognized lifecycle status.
func ValidStatus(s Status) bool {
	return s == StatusPending || s == StatusApproved || s == StatusDeclined
}

// ModerationOutcome reports whether s is a status moderation may assign.
// Moderation resolves a submission; it never sends an article back to pending.
func ModerationOutcome(s Status) bool {
	return s == StatusApproved || s == StatusDeclined
}

// Article represents a submitted story in the paper.
type Article struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Image         string    `json:"image"`
	Publisher     string    `json:"publisher"` // denormalized publisher name, no referential integrity
	Tags          TagSet    `json:"tags"`
	Description   string    `json:"description"`
	Status        Status    `json:"status"`
	Author        string    `json:"author"`
	AuthorID      string    `json:"authorId"`
	Views         int64     `json:"views"`
	IsPremium     bool      `json:"isPremium"`
	DeclineReason string    `json:"declineReason,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt,omitempty"`
}

// IsApproved returns true if the article passed moderation.
func (a *Article) IsApproved() bool {
	return a.Status == StatusApproved
}

// IsOwnedBy returns true if uid is the submitting identity.
func (a *Article) IsOwnedBy(uid string) bool {
	return a.AuthorID == uid
}

// Mutable returns true if the author may still edit or delete the article.
// Approval freezes an article permanently.
func (a *Article) Mutable() bool {
	return a.Status != StatusApproved
}
