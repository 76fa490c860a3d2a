package constants

const (
	// Application settings keys
	SettingTimezone          = "timezone"
	SettingDefaultChecklists = "default_checklists"
	SettingLocale            = "locale"

	// Default settings values
	DefaultTimezone = "UTC"
	DefaultLocale   = "en-NG"

	// Filter sentinels accepted from form input and translated to "no filter"
	FilterSentinelAll = "all"
	FilterSentinelAny = "any"
)
