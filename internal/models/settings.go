package models

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Theme selects the colour scheme
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// StartPage is the screen shown on launch
type StartPage string

const (
	StartPageDashboard StartPage = "dashboard"
	StartPageTasks     StartPage = "tasks"
)

// TimeFormat is "12" or "24" hour clock
type TimeFormat string

const (
	TimeFormat12 TimeFormat = "12"
	TimeFormat24 TimeFormat = "24"
)

// Settings is the singleton preferences record. It has no id or timestamps.
type Settings struct {
	Theme        Theme      `json:"theme" validate:"oneof=light dark system"`
	StartPage    StartPage  `json:"startPage" validate:"oneof=dashboard tasks"`
	WeekStartsOn int        `json:"weekStartsOn" validate:"oneof=0 1"` // 0 = Sunday, 1 = Monday
	TimeFormat   TimeFormat `json:"timeFormat" validate:"oneof=12 24"`
	FocusMode    bool       `json:"focusMode"`
}

// SettingsPatch is a partial update; nil fields are left untouched
type SettingsPatch struct {
	Theme        *Theme      `json:"theme,omitempty"`
	StartPage    *StartPage  `json:"startPage,omitempty"`
	WeekStartsOn *int        `json:"weekStartsOn,omitempty"`
	TimeFormat   *TimeFormat `json:"timeFormat,omitempty"`
	FocusMode    *bool       `json:"focusMode,omitempty"`
}

// DefaultSettings returns the settings used when nothing is stored
func DefaultSettings() Settings {
	return Settings{
		Theme:        ThemeSystem,
		StartPage:    StartPageDashboard,
		WeekStartsOn: 1,
		TimeFormat:   TimeFormat24,
		FocusMode:    false,
	}
}

// Apply merges the patch over s field by field
func (p SettingsPatch) Apply(s *Settings) {
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.StartPage != nil {
		s.StartPage = *p.StartPage
	}
	if p.WeekStartsOn != nil {
		s.WeekStartsOn = *p.WeekStartsOn
	}
	if p.TimeFormat != nil {
		s.TimeFormat = *p.TimeFormat
	}
	if p.FocusMode != nil {
		s.FocusMode = *p.FocusMode
	}
}

var validate = validator.New()

// Validate checks the enum fields. The store itself never rejects settings;
// this is for input surfaces such as the settings command.
func (s Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}
