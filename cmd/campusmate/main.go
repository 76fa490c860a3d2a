package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/campusmate/campusmate/internal/cli"
	"github.com/campusmate/campusmate/internal/cli/backups"
	"github.com/campusmate/campusmate/internal/cli/checklists"
	"github.com/campusmate/campusmate/internal/cli/roommates"
	"github.com/campusmate/campusmate/internal/cli/schools"
	"github.com/campusmate/campusmate/internal/cli/settings"
	"github.com/campusmate/campusmate/internal/cli/system"
	"github.com/campusmate/campusmate/internal/config"
	"github.com/campusmate/campusmate/internal/constants"
	apperrors "github.com/campusmate/campusmate/internal/errors"
	"github.com/campusmate/campusmate/internal/instance"
	"github.com/campusmate/campusmate/internal/logger"
)

type campusmateCLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path. PostgreSQL connection strings go in the keyring or CAMPUSMATE_DB_CONNECTION, never in the config file with a password." type:"string" default:"${config_file}"`

	Init      system.InitCmd        `cmd:"" help:"Initialize campusmate storage."`
	Import    system.ImportCmd      `cmd:"" help:"Import schools, programmes and roommate profiles from a YAML or JSON file."`
	Doctor    system.DoctorCmd      `cmd:"" help:"Run health checks and diagnostics."`
	Tui       system.TuiCmd         `cmd:"" help:"Launch the interactive dashboard." default:"1"`
	Serve     system.ServeCmd       `cmd:"" help:"Serve the JSON API."`
	Deadlines schools.DeadlinesCmd  `cmd:"" help:"Show application deadlines grouped by month."`
	Settings  settings.SettingsCmd  `cmd:"" help:"View or change application settings."`
	Checklist struct {
		List     checklists.ListCmd     `cmd:"" help:"List available checklists." default:"1"`
		Select   checklists.SelectCmd   `cmd:"" help:"Choose which checklists to track."`
		Toggle   checklists.ToggleCmd   `cmd:"" help:"Toggle a checklist step."`
		Progress checklists.ProgressCmd `cmd:"" help:"Show checklist progress."`
		Export   checklists.ExportCmd   `cmd:"" help:"Export a progress report."`
		Reset    checklists.ResetCmd    `cmd:"" help:"Clear all progress and the selection."`
	} `cmd:"" help:"Track admission checklists."`
	School struct {
		List schools.SchoolListCmd `cmd:"" help:"List schools." default:"1"`
	} `cmd:"" help:"Browse schools."`
	Programme struct {
		List schools.ProgrammeListCmd `cmd:"" help:"List programmes at a school."`
	} `cmd:"" help:"Browse programmes."`
	Roommate struct {
		Search roommates.SearchCmd `cmd:"" help:"Search roommate profiles." default:"1"`
		Save   roommates.SaveCmd   `cmd:"" help:"Create or update your roommate profile from a file."`
	} `cmd:"" help:"Find roommates."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the database connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check whether the OS keyring is available."`
	} `cmd:"" help:"Manage the database connection string in the OS keyring."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
}

// Commands that must run before, or without, a loaded store.
var skipLoad = map[string]bool{
	"init":    true,
	"keyring": true,
}

func newParser(c *campusmateCLI) (*kong.Kong, error) {
	return kong.New(c,
		kong.Name(constants.AppName),
		kong.Description("Admission checklists, deadlines and roommate search for Nigerian university applicants"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_file": constants.DefaultConfigFile,
		},
	)
}

func main() {
	var c campusmateCLI
	parser, err := newParser(&c)
	if err != nil {
		panic(err)
	}
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	if err := run(kctx, c.Config); err != nil {
		apperrors.Fatal(err)
	}
}

// run executes the parsed command. Every resource it acquires is released
// before it returns, so callers may exit straight after.
func run(kctx *kong.Context, configPath string) error {
	command := strings.Fields(kctx.Command())[0]

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if err := logger.Init(logger.Config{
		Debug:     cfg.Log.Debug,
		ConfigDir: cfg.Dir,
		Stderr:    command == "serve",
	}); err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Failed to initialize logging: %v\n", err)
	}

	lock, other, err := instance.Acquire(cfg.Dir, kctx.Command())
	if err != nil {
		logger.Warn("Failed to record running instance", "error", err)
	}
	if other != nil {
		fmt.Fprintf(os.Stderr, "⚠ Another campusmate process is using this config: %s\n", other)
		fmt.Fprintf(os.Stderr, "  Checklist changes are last-write-wins between processes.\n")
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("Failed to release instance lock", "error", err)
		}
	}()

	store, err := cli.OpenStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close storage", "error", err)
		}
	}()

	ctx := context.Background()
	if !skipLoad[command] {
		if err := store.Load(ctx); err != nil {
			return err
		}
	}

	appCtx := cli.NewContext(ctx, cfg, store, cli.NewStateStore(cfg, store))
	appCtx.ConfigPath = configPath

	return kctx.Run(appCtx)
}
