package constants

import "time"

// Route represents a top-level UI route selected by the session orchestrator
type Route int

// Tab represents a tab of the main screen
type Tab int

const (
	AppName           = "iquit"
	Version           = "v0.3.0"
	DefaultConfigPath = "~/.config/iquit/iquit.json"

	// DefaultBaseURL is the API endpoint used when IQUIT_API_URL is not set
	DefaultBaseURL = "http://localhost:5002"

	// DebugEmail is the reserved account that authenticates locally and
	// switches every service into mock mode. The check must happen before
	// any network I/O so the debug path works offline.
	DebugEmail = "debug@iquit.dev"

	// DebugToken is the dummy bearer token stored for the debug account
	DebugToken = "debug-token"

	// Keyring keys
	KeyringTokenUser = "auth-token"

	// Key-value store keys for session state
	KeyIsLoggedIn          = "is_logged_in"
	KeyIsDebugMode         = "is_debug_mode"
	KeyUserEmail           = "user_email"
	KeyAuthToken           = "auth_token"
	KeyOnboardingCompleted = "onboarding_completed"
	KeyUserPreferences     = "user_preferences"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// MinPasswordLength is enforced client-side before any auth request
	MinPasswordLength = 6

	// DebugAuthDelay simulates the network round trip on the sentinel path
	DebugAuthDelay = 300 * time.Millisecond
	// DebugLogDelay simulates a consumption write in mock mode
	DebugLogDelay = 100 * time.Millisecond

	// Mock data ranges for debug mode
	MockTodayMin     = 0
	MockTodayMax     = 8
	MockWeeklyAvgMin = 2.0
	MockWeeklyAvgMax = 6.0
)

const (
	// Routes
	RouteLoading Route = iota
	RouteLogin
	RouteOnboarding
	RouteMain
)

const (
	// Main screen tabs
	TabHome Tab = iota
	TabStats
	TabProfile
)

// Substances lists the trackable habits, in display order
var Substances = []string{"coffee", "cigarettes", "alcohol", "drugs", "social_media", "gaming"}

// SubstanceUnits maps each substance to its selectable unit types.
// The first unit is the default when the substance is picked.
var SubstanceUnits = map[string][]string{
	"coffee":       {"cup", "shot", "mug"},
	"cigarettes":   {"cigarette", "pack", "stick"},
	"alcohol":      {"drink", "beer", "glass", "bottle"},
	"drugs":        {"dose", "pill", "gram"},
	"social_media": {"hour", "session"},
	"gaming":       {"hour", "session"},
}
