package types

import "time"

type ContactCategory string

const (
	ContactEmbassy  ContactCategory = "embassy"
	ContactPolice   ContactCategory = "police"
	ContactMedical  ContactCategory = "medical"
	ContactFire     ContactCategory = "fire"
	ContactPersonal ContactCategory = "personal"
	ContactOther    ContactCategory = "other"
)

func (c ContactCategory) IsValid() bool {
	switch c {
	case ContactEmbassy, ContactPolice, ContactMedical, ContactFire, ContactPersonal, ContactOther:
		return true
	}
	return false
}

// ContactSource records whether a contact was typed in or produced by the AI.
type ContactSource string

const (
	SourceManual    ContactSource = "manual"
	SourceGenerated ContactSource = "generated"
	SourceExtracted ContactSource = "extracted"
)

type EmergencyContact struct {
	ID        string          `json:"id"`
	TripID    string          `json:"tripId"`
	Name      string          `json:"name"`
	Category  ContactCategory `json:"category"`
	Phone     string          `json:"phone,omitempty"`
	Email     string          `json:"email,omitempty"`
	Address   string          `json:"address,omitempty"`
	Notes     string          `json:"notes,omitempty"`
	Source    ContactSource   `json:"source"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type Companion struct {
	ID           string    `json:"id"`
	TripID       string    `json:"tripId"`
	Name         string    `json:"name"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Relationship string    `json:"relationship,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ContactInput is the writable subset of EmergencyContact.
type ContactInput struct {
	Name     string          `json:"name" binding:"required"`
	Category ContactCategory `json:"category"`
	Phone    string          `json:"phone,omitempty"`
	Email    string          `json:"email,omitempty" binding:"omitempty,email"`
	Address  string          `json:"address,omitempty"`
	Notes    string          `json:"notes,omitempty"`
}

// CompanionInput is the writable subset of Companion.
type CompanionInput struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email,omitempty" binding:"omitempty,email"`
	Phone        string `json:"phone,omitempty"`
	Relationship string `json:"relationship,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// ExtractContactsRequest carries free text to pull contacts out of.
type ExtractContactsRequest struct {
	Text string `json:"text" binding:"required"`
}
