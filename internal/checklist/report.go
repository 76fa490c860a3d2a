package checklist

import (
	"fmt"
	"strings"
	"time"

	"github.com/campusmate/campusmate/internal/constants"
	"github.com/campusmate/campusmate/internal/models"
)

const (
	reportRule   = "================================================"
	sectionRule  = "------------------------------------------------"
	checkedGlyph = "[✓]"
	emptyGlyph   = "[ ]"
)

// ReportFilename names the downloadable report for the day of t.
func ReportFilename(t time.Time) string {
	return constants.ReportFilePrefix + t.Format(constants.DateFormat) + constants.ReportFileSuffix
}

// ExportReport renders the plain-text progress report.
func ExportReport(selected []models.ChecklistDefinition, state models.CompletionState, generatedAt time.Time) string {
	var b strings.Builder

	overall := OverallProgress(selected, state)
	b.WriteString("ADMISSION CHECKLIST PROGRESS REPORT\n")
	fmt.Fprintf(&b, "Generated: %s\n", generatedAt.Format(constants.ReportTimestampFormat))
	fmt.Fprintf(&b, "Overall Progress: %d/%d steps completed (%d%%)\n", overall.Completed, overall.Total, overall.Percent)
	b.WriteString(reportRule + "\n")

	if len(selected) == 0 {
		b.WriteString("\nNo checklists selected.\n")
		return b.String()
	}

	for _, def := range selected {
		p := ChecklistProgress(def, state)
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s (%d/%d - %d%%)\n", def.Name, p.Completed, p.Total, p.Percent)
		if def.Description != "" {
			b.WriteString(def.Description + "\n")
		}
		b.WriteString(sectionRule + "\n")

		for _, step := range def.Steps {
			glyph := emptyGlyph
			if state[step.ID] {
				glyph = checkedGlyph
			}
			fmt.Fprintf(&b, "%s %s\n", glyph, step.Title)
			if step.Description != "" {
				fmt.Fprintf(&b, "    %s\n", step.Description)
			}
			fmt.Fprintf(&b, "    Time: %s | Category: %s | Priority: %s\n", step.EstimatedTime, step.Category, step.Priority)
			if step.Deadline != "" {
				fmt.Fprintf(&b, "    Deadline: %s\n", step.Deadline)
			}
			for _, tip := range step.Tips {
				fmt.Fprintf(&b, "    Tip: %s\n", tip)
			}
		}
	}

	return b.String()
}
