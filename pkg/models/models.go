package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// User holds the identity of an authenticated Google account together with
// the OAuth2 token pair used for calendar calls on the user's behalf.
// Email is the identity key: the first successful callback for an email
// creates the row, later callbacks refresh the stored tokens.
type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Name         string    `json:"name"`
	GoogleID     string    `json:"-"`
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	TokenExpiry  time.Time `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Event is a locally owned calendar event. GoogleCalendarID stays empty
// until the first successful remote insert; once set it is the handle for
// every remote update and delete.
type Event struct {
	ID               string         `gorm:"primaryKey;size:36" json:"id"`
	Title            string         `gorm:"not null" json:"title"`
	Description      string         `json:"description,omitempty"`
	Participants     pq.StringArray `gorm:"type:text[]" json:"participants"`
	Date             time.Time      `gorm:"not null" json:"date"`
	Time             string         `gorm:"not null" json:"time"`
	Duration         float64        `gorm:"not null" json:"duration"`
	SessionNotes     string         `json:"sessionNotes,omitempty"`
	GoogleCalendarID string         `json:"googleCalendarId,omitempty"`
	UserID           string         `gorm:"index;not null" json:"userId"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

func (e *Event) BeforeCreate(*gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// Synced reports whether the event has been mirrored to the remote calendar.
func (e *Event) Synced() bool {
	return e.GoogleCalendarID != ""
}
