package schools

import (
	"errors"
	"fmt"
	"strings"

	"github.com/campusmate/campusmate/internal/cli"
	"github.com/campusmate/campusmate/internal/deadlines"
	"github.com/campusmate/campusmate/internal/storage"
	"github.com/campusmate/campusmate/internal/utils"
)

type DeadlinesCmd struct {
	Upcoming bool   `help:"Hide deadlines that have already passed." short:"u"`
	Month    string `help:"Only show one month, e.g. \"June 2025\"."`
}

func (c *DeadlinesCmd) Run(ctx *cli.Context) error {
	groups, err := ctx.Service.DeadlineGroups(ctx.Context(), c.Upcoming)
	if err != nil {
		return err
	}
	if c.Month != "" {
		groups = filterMonth(groups, c.Month)
	}
	if len(groups) == 0 {
		ctx.Println("No deadlines found.")
		return nil
	}

	for _, group := range groups {
		ctx.Printf("%s\n", group.Label)
		for _, item := range group.Items {
			ctx.Printf("  %s  %s\n", utils.FormatDate(item.Date), describe(item))
		}
		ctx.Println()
	}
	return nil
}

func filterMonth(groups []deadlines.MonthGroup, month string) []deadlines.MonthGroup {
	for _, g := range groups {
		if strings.EqualFold(g.Label, strings.TrimSpace(month)) {
			return []deadlines.MonthGroup{g}
		}
	}
	return nil
}

func describe(item deadlines.Item) string {
	if item.Programme != nil {
		return fmt.Sprintf("%s - %s", item.School.Name, item.Programme.Name)
	}
	return item.School.Name
}

type SchoolListCmd struct{}

func (c *SchoolListCmd) Run(ctx *cli.Context) error {
	schools, err := ctx.Store.GetSchools(ctx.Context())
	if err != nil {
		return fmt.Errorf("failed to get schools: %w", err)
	}
	if len(schools) == 0 {
		ctx.Println("No schools found. Run 'campusmate init --seed' to load the bundled list.")
		return nil
	}

	for _, s := range schools {
		location := strings.Trim(s.City+", "+s.State, ", ")
		ctx.Printf("%-12s %s", s.ID, s.Name)
		if location != "" {
			ctx.Printf(" (%s)", location)
		}
		if s.NextDeadline != "" {
			ctx.Printf(" - next deadline %s", s.NextDeadline)
		}
		ctx.Println()
	}
	return nil
}

type ProgrammeListCmd struct {
	School string `arg:"" help:"School ID."`
}

func (c *ProgrammeListCmd) Run(ctx *cli.Context) error {
	school, err := ctx.Store.GetSchool(ctx.Context(), c.School)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("school not found: %s", c.School)
		}
		return err
	}
	programmes, err := ctx.Store.GetProgrammesBySchool(ctx.Context(), school.ID)
	if err != nil {
		return fmt.Errorf("failed to get programmes: %w", err)
	}

	ctx.Printf("Programmes at %s:\n\n", school.Name)
	if len(programmes) == 0 {
		ctx.Println("  (none)")
		return nil
	}
	for _, p := range programmes {
		status := "closed"
		if p.Open {
			status = "open"
		}
		ctx.Printf("  %-24s %s [%s, %s]", p.ID, p.Name, p.Level, status)
		if p.NextDeadline != "" {
			ctx.Printf(" - deadline %s", p.NextDeadline)
		}
		ctx.Println()
		for _, req := range p.Requirements {
			ctx.Printf("      • %s\n", req)
		}
	}
	return nil
}
