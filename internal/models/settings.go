package models

import "time"

// SettingsID is the key of the single settings record.
const SettingsID = "default"

// Settings are the user's display and valuation preferences.
type Settings struct {
	Currency  string    `json:"currency" validate:"required,oneof=USD EUR GBP JPY CAD"`
	TargetMOS float64   `json:"target_mos" validate:"gte=10,lte=75"` // margin of safety percentage
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate validates the settings using go-playground/validator.
func (s *Settings) Validate() error {
	return validate.Struct(s)
}
