package models

// Credentials is the locally persisted session record. It is owned by the
// credential store; a missing record reads as the zero value (logged out).
type Credentials struct {
	IsLoggedIn  bool   `json:"is_logged_in"`
	IsDebugMode bool   `json:"is_debug_mode"`
	UserEmail   string `json:"user_email,omitempty"`
	AuthToken   string `json:"auth_token,omitempty"`
}
