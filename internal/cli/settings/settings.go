package settings

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/campusmate/campusmate/internal/checklist"
	"github.com/campusmate/campusmate/internal/cli"
	"github.com/campusmate/campusmate/internal/models"
	"github.com/campusmate/campusmate/internal/storage"
	"github.com/campusmate/campusmate/internal/utils"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Timezone               *string  `help:"IANA timezone for report timestamps and deadline months (e.g. Africa/Lagos)."`
	Locale                 *string  `help:"BCP 47 locale for number formatting (e.g. en-NG)."`
	DefaultChecklists      []string `help:"Checklists selected before any selection is saved." sep:","`
	ClearDefaultChecklists bool     `help:"Remove the default checklists and use the built-in pair."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings(ctx.Context())
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	models.ApplyDefaultSettings(&settings)

	if c.List {
		printSettings(ctx, settings)
		return nil
	}

	if len(c.DefaultChecklists) > 0 && c.ClearDefaultChecklists {
		return errors.New("--default-checklists and --clear-default-checklists cannot be combined")
	}

	updated := false
	if c.Timezone != nil {
		tz := strings.TrimSpace(*c.Timezone)
		if _, err := utils.LoadLocation(tz); err != nil {
			return err
		}
		settings.Timezone = tz
		updated = true
	}
	if c.Locale != nil {
		tag, err := language.Parse(strings.TrimSpace(*c.Locale))
		if err != nil {
			return fmt.Errorf("invalid locale %q: %w", *c.Locale, err)
		}
		settings.Locale = tag.String()
		updated = true
	}
	if len(c.DefaultChecklists) > 0 {
		if unknown := checklist.UnknownIDs(ctx.Service.Catalog, c.DefaultChecklists); len(unknown) > 0 {
			return fmt.Errorf("unknown checklist(s): %s", strings.Join(unknown, ", "))
		}
		settings.DefaultChecklists = c.DefaultChecklists
		updated = true
	}
	if c.ClearDefaultChecklists {
		settings.DefaultChecklists = nil
		updated = true
	}

	if !updated {
		ctx.Println("No changes specified. Use --list to view settings or flags to update them.")
		return nil
	}
	if err := ctx.Store.SaveSettings(ctx.Context(), settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.Println("Settings updated successfully.")
	return nil
}

func printSettings(ctx *cli.Context, settings models.Settings) {
	defaults := "(built-in)"
	if len(settings.DefaultChecklists) > 0 {
		defaults = strings.Join(settings.DefaultChecklists, ", ")
	}
	ctx.Println("Current Settings:")
	ctx.Printf("  Timezone:           %s\n", settings.Timezone)
	ctx.Printf("  Locale:             %s\n", settings.Locale)
	ctx.Printf("  Default Checklists: %s\n", defaults)
}
