package checklists

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/campusmate/campusmate/internal/checklist"
	"github.com/campusmate/campusmate/internal/cli"
	"github.com/campusmate/campusmate/internal/models"
)

const barWidth = 20

type ListCmd struct{}

func (c *ListCmd) Run(ctx *cli.Context) error {
	selected, err := ctx.Service.Selection(ctx.Context())
	if err != nil {
		return err
	}
	isSelected := make(map[string]bool, len(selected))
	for _, id := range selected {
		isSelected[id] = true
	}

	ctx.Println("Available checklists:")
	ctx.Println()
	for _, def := range ctx.Service.Catalog {
		mark := " "
		if isSelected[def.ID] {
			mark = "x"
		}
		ctx.Printf("  [%s] %-22s %s (%d steps)\n", mark, def.ID, def.Name, len(def.Steps))
	}
	ctx.Println()
	ctx.Println("Use 'campusmate checklist select <id>...' to change the selection.")
	return nil
}

type SelectCmd struct {
	IDs []string `arg:"" name:"id" help:"Checklist IDs to track."`
}

func (c *SelectCmd) Run(ctx *cli.Context) error {
	ids, err := ctx.Service.SetSelection(ctx.Context(), c.IDs)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Tracking %d checklists: %s\n", len(ids), strings.Join(ids, ", "))
	return nil
}

type ToggleCmd struct {
	Step string `arg:"" help:"Step ID to toggle."`
}

func (c *ToggleCmd) Run(ctx *cli.Context) error {
	done, err := ctx.Service.ToggleStep(ctx.Context(), c.Step)
	if err != nil {
		return err
	}
	if done {
		ctx.Printf("✓ Marked %s as done\n", c.Step)
	} else {
		ctx.Printf("○ Marked %s as not done\n", c.Step)
	}
	return nil
}

type ProgressCmd struct {
	IDs   []string `help:"Checklist IDs to report on instead of the saved selection." sep:","`
	Steps bool     `help:"List every step with its status." short:"s"`
}

func (c *ProgressCmd) Run(ctx *cli.Context) error {
	var ids []string
	if len(c.IDs) > 0 {
		ids = c.IDs
	}
	report, err := ctx.Service.Progress(ctx.Context(), ids)
	if err != nil {
		return err
	}
	if len(report.Checklists) == 0 {
		ctx.Println("No checklists selected.")
		return nil
	}

	ctx.Printf("Overall: %s\n\n", formatProgress(report.Overall))
	for _, view := range report.Checklists {
		ctx.Printf("%s %s\n", view.Checklist.Icon, view.Checklist.Name)
		ctx.Printf("  %s\n", formatProgress(view.Progress))
		if c.Steps {
			printSteps(ctx, view.Checklist, report.Completion)
		}
		ctx.Println()
	}
	return nil
}

func printSteps(ctx *cli.Context, def models.ChecklistDefinition, completion models.CompletionState) {
	for _, step := range def.Steps {
		mark := " "
		if completion.IsComplete(step.ID) {
			mark = "x"
		}
		ctx.Printf("  [%s] %s (%s)", mark, step.Title, step.ID)
		if step.Deadline != "" {
			ctx.Printf(" due %s", step.Deadline)
		}
		ctx.Println()
	}
}

func formatProgress(p checklist.Progress) string {
	filled := p.Percent * barWidth / 100
	return fmt.Sprintf("[%s%s] %d/%d steps (%d%%)",
		strings.Repeat("█", filled), strings.Repeat("░", barWidth-filled), p.Completed, p.Total, p.Percent)
}

type ExportCmd struct {
	Output string `help:"File or directory to write the report to." short:"o" type:"path"`
	Stdout bool   `help:"Print the report instead of writing a file."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	filename, content, err := ctx.Service.Export(ctx.Context())
	if err != nil {
		return err
	}
	if c.Stdout {
		ctx.Printf("%s", content)
		return nil
	}

	path := filename
	if c.Output != "" {
		path = c.Output
		if info, err := os.Stat(c.Output); err == nil && info.IsDir() {
			path = filepath.Join(c.Output, filename)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	ctx.Printf("✓ Report written to %s\n", path)
	return nil
}

type ResetCmd struct {
	Yes bool `help:"Skip the confirmation prompt." short:"y"`
}

func (c *ResetCmd) Run(ctx *cli.Context) error {
	if !c.Yes {
		ok, err := ctx.Confirm("This clears all checklist progress and your selection. Continue?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Reset cancelled.")
			return nil
		}
	}
	if err := ctx.Service.ResetChecklists(ctx.Context()); err != nil {
		return err
	}
	ctx.Println("✓ Checklist progress and selection cleared")
	return nil
}
