package models

// Settings represents application-wide settings
type Settings struct {
	Timezone          string   `json:"timezone"`           // IANA timezone used for report timestamps and month labels
	DefaultChecklists []string `json:"default_checklists"` // checklists selected when nothing has been persisted yet
	Locale            string   `json:"locale"`             // BCP 47 tag used for number formatting
}
