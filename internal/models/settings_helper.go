package models

import (
	"strings"

	"github.com/campusmate/campusmate/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) Settings {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingDefaultChecklists:
			settings.DefaultChecklists = splitList(value)
		case constants.SettingLocale:
			settings.Locale = value
		}
	}
	return settings
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingTimezone:          settings.Timezone,
		constants.SettingDefaultChecklists: strings.Join(settings.DefaultChecklists, ","),
		constants.SettingLocale:            settings.Locale,
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	if settings.Locale == "" {
		settings.Locale = constants.DefaultLocale
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
