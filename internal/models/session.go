package models

// Role is the kind of user holding a session
type Role string

const (
	RoleDriver Role = "DRIVER" // Hauls material between sites
	RolePit    Role = "PIT"    // Operates a dump site or quarry
	RoleBuyer  Role = "BUYER"  // Needs material delivered
)

// Roles lists every role in the order the onboarding screen offers them
var Roles = []Role{RoleDriver, RolePit, RoleBuyer}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleDriver, RolePit, RoleBuyer:
		return true
	}
	return false
}

// Language is the UI language stored with the session
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageSpanish Language = "es"
)

// Toggle returns the other supported language
func (l Language) Toggle() Language {
	if l == LanguageEnglish {
		return LanguageSpanish
	}
	return LanguageEnglish
}

// OrDefault falls back to English for empty or unknown values
func (l Language) OrDefault() Language {
	if l == LanguageSpanish {
		return LanguageSpanish
	}
	return LanguageEnglish
}

// SessionKey is the single key the session record lives under
const SessionKey = "user_session"

// Session is the record written at onboarding and read by the map screen.
// The JSON shape matches what the mobile client keeps in its own storage.
type Session struct {
	Role      Role     `json:"role"`
	Name      string   `json:"name"`
	Phone     string   `json:"phone"`
	ID        string   `json:"id"`        // Short base-36 token, not guaranteed unique
	CreatedAt string   `json:"createdAt"` // RFC 3339, UTC
	Language  Language `json:"language"`
}

// SessionResponse is what we send back after onboarding
type SessionResponse struct {
	Session Session `json:"session"`
	Token   string  `json:"token,omitempty"`
}
