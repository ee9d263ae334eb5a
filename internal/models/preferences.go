package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/pichane/iquit-cli/internal/constants"
)

// UserPreferences is the single-record preference cache written by the
// onboarding flow and edited field-by-field from the profile screen.
// At most one record is resident at a time; DailyGoal must be positive and
// CostPerUnit non-negative once onboarding completes.
type UserPreferences struct {
	ID                   string     `json:"id"`
	Email                string     `json:"email"`
	TargetSubstance      string     `json:"target_substance"`
	DailyGoal            float64    `json:"daily_goal"`
	UnitType             string     `json:"unit_type"`
	CostPerUnit          float64    `json:"cost_per_unit"`
	QuitDate             *time.Time `json:"quit_date,omitempty"`
	IsDebugMode          bool       `json:"is_debug_mode"`
	Language             string     `json:"language"`
	NotificationsEnabled bool       `json:"notifications_enabled"`
	OnboardingCompleted  bool       `json:"onboarding_completed"`
}

// NewUserPreferences returns a preferences record with generated ID and
// the application defaults filled in.
func NewUserPreferences(email string) UserPreferences {
	return UserPreferences{
		ID:                   uuid.New().String(),
		Email:                email,
		UnitType:             "unit",
		Language:             "en",
		NotificationsEnabled: true,
	}
}

// DebugPreferences is the canned record used by the debug account, which
// skips onboarding entirely.
func DebugPreferences() UserPreferences {
	quit := time.Now().AddDate(0, 0, -7)
	return UserPreferences{
		ID:                   uuid.New().String(),
		Email:                constants.DebugEmail,
		TargetSubstance:      "coffee",
		DailyGoal:            1,
		UnitType:             "cup",
		CostPerUnit:          3.50,
		QuitDate:             &quit,
		IsDebugMode:          true,
		Language:             "en",
		NotificationsEnabled: true,
		OnboardingCompleted:  true,
	}
}
