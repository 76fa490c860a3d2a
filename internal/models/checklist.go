package models

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type Resource struct {
	Title string `json:"title" yaml:"title" validate:"required"`
	URL   string `json:"url" yaml:"url" validate:"required,url"`
}

type ChecklistStep struct {
	ID            string     `json:"id" yaml:"id" validate:"required"`
	Title         string     `json:"title" yaml:"title" validate:"required"`
	Description   string     `json:"description" yaml:"description"`
	Category      string     `json:"category" yaml:"category" validate:"required"`
	EstimatedTime string     `json:"estimated_time" yaml:"estimated_time"`
	Priority      Priority   `json:"priority" yaml:"priority" validate:"required,oneof=high medium low"`
	Deadline      string     `json:"deadline,omitempty" yaml:"deadline,omitempty"`
	Tips          []string   `json:"tips,omitempty" yaml:"tips,omitempty"`
	Resources     []Resource `json:"resources,omitempty" yaml:"resources,omitempty" validate:"dive"`
}

type ChecklistDefinition struct {
	ID          string          `json:"id" yaml:"id" validate:"required"`
	Name        string          `json:"name" yaml:"name" validate:"required"`
	Icon        string          `json:"icon" yaml:"icon"`
	ColorTheme  string          `json:"color_theme" yaml:"color_theme"`
	Description string          `json:"description" yaml:"description"`
	Steps       []ChecklistStep `json:"steps" yaml:"steps" validate:"required,min=1,dive"`
}

// CompletionState maps step IDs to their completion flag. Keys that do not
// belong to any checklist are carried along but never counted.
type CompletionState map[string]bool

// Clone returns an independent copy of the state.
func (c CompletionState) Clone() CompletionState {
	out := make(CompletionState, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// IsComplete reports whether stepID is marked done. Missing keys are false.
func (c CompletionState) IsComplete(stepID string) bool {
	return c[stepID]
}
