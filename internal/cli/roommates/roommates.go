package roommates

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/campusmate/campusmate/internal/cli"
	"github.com/campusmate/campusmate/internal/models"
	"github.com/campusmate/campusmate/internal/roommates"
	"github.com/campusmate/campusmate/internal/service"
	"github.com/campusmate/campusmate/internal/storage"
	"github.com/campusmate/campusmate/internal/utils"
	"github.com/campusmate/campusmate/internal/validation"
)

// SearchCmd flags are strings so "all" and "any" can be passed through like
// the web form does.
type SearchCmd struct {
	Viewer      string `help:"User ID to search as. Defaults to viewer.user_id from the config."`
	Query       string `help:"Free text matched against name, course, department, bio and interests." short:"q" name:"q"`
	University  string `help:"University name (substring)."`
	Faculty     string `help:"Faculty (exact match)."`
	Department  string `help:"Department (substring)."`
	Gender      string `help:"Gender."`
	MinAge      string `help:"Minimum age." name:"min-age"`
	MaxAge      string `help:"Maximum age." name:"max-age"`
	Religion    string `help:"Religion."`
	MinBudget   string `help:"Minimum budget in naira." name:"min-budget"`
	MaxBudget   string `help:"Maximum budget in naira." name:"max-budget"`
	Location    string `help:"Preferred location (substring)."`
	YearOfStudy string `help:"Year of study." name:"year"`
}

func (c *SearchCmd) values() map[string]string {
	return map[string]string{
		roommates.KeyQuery:       c.Query,
		roommates.KeyUniversity:  c.University,
		roommates.KeyFaculty:     c.Faculty,
		roommates.KeyDepartment:  c.Department,
		roommates.KeyGender:      c.Gender,
		roommates.KeyMinAge:      c.MinAge,
		roommates.KeyMaxAge:      c.MaxAge,
		roommates.KeyReligion:    c.Religion,
		roommates.KeyMinBudget:   c.MinBudget,
		roommates.KeyMaxBudget:   c.MaxBudget,
		roommates.KeyLocation:    c.Location,
		roommates.KeyYearOfStudy: c.YearOfStudy,
	}
}

func (c *SearchCmd) Run(ctx *cli.Context) error {
	filter, err := roommates.FilterFromValues(c.values())
	if err != nil {
		return err
	}

	viewer := viewerID(ctx, c.Viewer)
	results, err := ctx.Service.SearchRoommates(ctx.Context(), viewer, filter)
	if err != nil {
		if errors.Is(err, service.ErrNoViewer) {
			return errors.New("no viewer set; pass --viewer or set viewer.user_id in the config")
		}
		return err
	}

	if len(results) == 0 {
		ctx.Println("No matching roommates found.")
		return nil
	}

	settings, _, err := ctx.Service.Settings(ctx.Context())
	if err != nil {
		return err
	}
	printer := utils.NewPrinter(settings.Locale)

	ctx.Printf("Found %d matching roommates:\n\n", len(results))
	for _, p := range results {
		name := p.FullName
		if p.Verified {
			name += " ✓"
		}
		ctx.Printf("%s\n", name)
		ctx.Printf("  %s\n", strings.Join(nonEmpty(p.University, p.Department, p.CourseOfStudy), " · "))
		ctx.Printf("  Budget: %s", utils.FormatBudget(printer, p.BudgetMin, p.BudgetMax))
		if p.PreferredLocation != "" {
			ctx.Printf(" near %s", p.PreferredLocation)
		}
		ctx.Println()
		if len(p.Interests) > 0 {
			ctx.Printf("  Interests: %s\n", strings.Join(p.Interests, ", "))
		}
		ctx.Println()
	}
	return nil
}

// SaveCmd creates or updates the viewer's own profile from a YAML file.
type SaveCmd struct {
	File   string `arg:"" type:"existingfile" help:"YAML file with the roommate profile."`
	Viewer string `help:"User ID that owns the profile. Defaults to viewer.user_id from the config."`
}

func (c *SaveCmd) Run(ctx *cli.Context) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", c.File, err)
	}
	var profile models.RoommateProfile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return fmt.Errorf("failed to parse profile: %w", err)
	}

	viewer := viewerID(ctx, c.Viewer)
	switch {
	case profile.UserID == "":
		profile.UserID = viewer
	case viewer != "" && profile.UserID != viewer:
		return fmt.Errorf("profile user_id %q does not match viewer %q", profile.UserID, viewer)
	}
	if err := validation.Default().Struct(profile); err != nil {
		return err
	}

	saved, err := ctx.Store.UpsertRoommateProfile(ctx.Context(), profile)
	if err != nil {
		if errors.Is(err, storage.ErrNotOwner) {
			return fmt.Errorf("cannot save profile %s: it belongs to another user", profile.ID)
		}
		if errors.Is(err, storage.ErrProfileExists) {
			return fmt.Errorf("%w; drop the id field to update your existing profile", err)
		}
		return err
	}
	ctx.Printf("✓ Saved roommate profile %s for %s\n", saved.ID, saved.UserID)
	return nil
}

func viewerID(ctx *cli.Context, flag string) string {
	if flag != "" {
		return flag
	}
	if ctx.Config != nil {
		return ctx.Config.Viewer.UserID
	}
	return ""
}

func nonEmpty(parts ...string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
