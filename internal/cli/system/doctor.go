package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/campusmate/campusmate/internal/catalog"
	"github.com/campusmate/campusmate/internal/cli"
	"github.com/campusmate/campusmate/internal/deadlines"
	"github.com/campusmate/campusmate/internal/state"
	"github.com/campusmate/campusmate/internal/storage"
	"github.com/campusmate/campusmate/internal/utils"
)

type DoctorCmd struct{}

type check struct {
	name string
	run  func(ctx *cli.Context) error
	// warnOnly failures are reported but do not fail the command.
	warnOnly bool
	// needsDB checks are skipped when the store is unreachable.
	needsDB bool
}

var doctorChecks = []check{
	{name: "Database reachable", run: checkDBReachable},
	{name: "Schema version", run: checkSchemaVersion, needsDB: true},
	{name: "Checklist catalog", run: checkCatalog},
	{name: "Settings", run: checkSettings, needsDB: true},
	{name: "Reference data", run: checkReferenceData, needsDB: true, warnOnly: true},
	{name: "Checklist state", run: checkChecklistState},
	{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
	{name: "Clock/timezone", run: checkClockTimezone},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	dbReachable := true

	for _, c := range doctorChecks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}

		err := c.run(ctx)
		var skip skipped
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case errors.As(err, &skip):
			ctx.Printf("⊘ %s: SKIPPED (%s)\n", c.name, skip)
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
			if c.name == "Database reachable" {
				dbReachable = false
			}
		}
	}

	ctx.Println()
	if hasError {
		return errors.New("one or more checks failed")
	}
	ctx.Println("All checks passed.")
	return nil
}

// skipped marks a check that does not apply to the current setup.
type skipped string

func (s skipped) Error() string { return string(s) }

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(ctx.Context()); err != nil {
		return err
	}
	if _, err := ctx.Store.GetSchools(ctx.Context()); err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	versioned, ok := ctx.Store.(storage.Versioned)
	if !ok {
		return skipped("store has no schema")
	}
	current, latest, err := versioned.SchemaVersion(ctx.Context())
	if err != nil {
		return err
	}
	if current != latest {
		return fmt.Errorf("database is at version %d, latest is %d; run 'campusmate init' to migrate", current, latest)
	}
	return nil
}

func checkCatalog(ctx *cli.Context) error {
	defs := ctx.Service.Catalog
	if len(defs) == 0 {
		return errors.New("no checklists are defined")
	}
	for _, id := range catalog.FallbackSelection {
		if _, ok := findChecklist(ctx, id); !ok {
			return fmt.Errorf("default checklist %q is missing from the catalog", id)
		}
	}
	return nil
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings(ctx.Context())
	if err != nil {
		return err
	}
	if settings.Timezone != "" {
		if _, err := utils.LoadLocation(settings.Timezone); err != nil {
			return fmt.Errorf("invalid timezone setting: %w", err)
		}
	}
	for _, id := range settings.DefaultChecklists {
		if _, ok := findChecklist(ctx, id); !ok {
			return fmt.Errorf("default_checklists names unknown checklist %q", id)
		}
	}
	return nil
}

func checkReferenceData(ctx *cli.Context) error {
	schools, err := ctx.Store.GetSchools(ctx.Context())
	if err != nil {
		return err
	}
	if len(schools) == 0 {
		return errors.New("no schools loaded; run 'campusmate init --seed' or 'campusmate import <file>'")
	}
	items, err := deadlines.Collect(ctx.Context(), ctx.Store)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return errors.New("no school or programme has a parseable deadline")
	}
	return nil
}

func checkChecklistState(ctx *cli.Context) error {
	if ctx.State == nil {
		return skipped("no state store")
	}
	if _, err := ctx.State.LoadCompletion(ctx.Context()); err != nil {
		if errors.Is(err, state.ErrCorruptState) {
			return fmt.Errorf("progress is corrupt; run 'campusmate checklist reset': %w", err)
		}
		return err
	}
	if _, _, err := ctx.State.LoadSelection(ctx.Context()); err != nil {
		if errors.Is(err, state.ErrCorruptState) {
			return fmt.Errorf("selection is corrupt; run 'campusmate checklist reset': %w", err)
		}
		return err
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr := ctx.BackupManager()
	if mgr == nil {
		return skipped("backups are only managed for SQLite")
	}
	backups, err := mgr.List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found in %s", mgr.Dir())
	}
	if age := time.Since(backups[0].Timestamp); age > 7*24*time.Hour {
		return fmt.Errorf("latest backup is %d days old", int(age.Hours()/24))
	}
	return nil
}

func checkClockTimezone(_ *cli.Context) error {
	now := time.Now()
	if now.Year() < 2000 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format(time.RFC3339))
	}
	if _, err := time.LoadLocation("Africa/Lagos"); err != nil {
		return fmt.Errorf("timezone database unavailable: %w", err)
	}
	return nil
}

func findChecklist(ctx *cli.Context, id string) (string, bool) {
	for _, def := range ctx.Service.Catalog {
		if def.ID == id {
			return def.Name, true
		}
	}
	return "", false
}
