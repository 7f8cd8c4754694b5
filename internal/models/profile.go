package models

import (
	"time"
)

// ColorScheme is the user's preferred UI color scheme.
type ColorScheme string

// Known color schemes.
const (
	SchemeLight  ColorScheme = "light"
	SchemeDark   ColorScheme = "dark"
	SchemeSystem ColorScheme = "system"
)

// Valid reports whether c is one of the known schemes.
func (c ColorScheme) Valid() bool {
	switch c {
	case SchemeLight, SchemeDark, SchemeSystem:
		return true
	}
	return false
}

// Next returns the scheme that follows c in the toggle cycle
// light -> dark -> system -> light.
func (c ColorScheme) Next() ColorScheme {
	switch c {
	case SchemeLight:
		return SchemeDark
	case SchemeDark:
		return SchemeSystem
	default:
		return SchemeLight
	}
}

// Preferences holds a user's display preferences. Stored as a JSON column
// on user_profiles.
type Preferences struct {
	ShowImagesInFeed  bool        `json:"show_images_in_feed"`
	ShowContentInFeed bool        `json:"show_content_in_feed"`
	ColorScheme       ColorScheme `json:"color_scheme"`
}

// DefaultPreferences returns the preferences assigned to newly created profiles.
func DefaultPreferences() Preferences {
	return Preferences{
		ShowImagesInFeed:  true,
		ShowContentInFeed: false,
		ColorScheme:       SchemeSystem,
	}
}

// UserProfile represents a user in the Artemis Eco application. The ID is
// either issued by the auth provider or is a client-generated anonymous token;
// either way the record is created once and updated in place, never deleted.
type UserProfile struct {
	ID           string `gorm:"primaryKey;size:64" json:"id"`
	DisplayName  string `gorm:"not null" json:"display_name"`
	Email        string `gorm:"index" json:"email,omitempty"`
	PasswordHash string `gorm:"column:password_hash" json:"-"`
	// Anonymous is the explicit marker for identities that were generated
	// client-side and never signed in. Promotion to an authenticated
	// identity clears it while keeping the same record.
	Anonymous   bool        `gorm:"not null;default:false" json:"anonymous"`
	Preferences Preferences `gorm:"serializer:json" json:"preferences"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// TableName overrides the default table name.
func (UserProfile) TableName() string { return "user_profiles" }

// Authenticated reports whether the profile belongs to a signed-in identity.
func (u *UserProfile) Authenticated() bool { return !u.Anonymous }
