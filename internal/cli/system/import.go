package system

import (
	"fmt"
	"os"

	"github.com/campusmate/campusmate/internal/catalog"
	"github.com/campusmate/campusmate/internal/cli"
)

// ImportCmd loads schools, programmes and roommate profiles from a YAML seed
// document. Existing rows with the same IDs are updated.
type ImportCmd struct {
	File string `arg:"" type:"existingfile" help:"YAML file with schools, programmes and roommates."`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", c.File, err)
	}
	seed, err := catalog.ParseSeed(data)
	if err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()

	sum, err := ctx.Service.Import(ctx.Context(), seed)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	ctx.Printf("✓ Imported %d schools, %d programmes and %d roommate profiles\n", sum.Schools, sum.Programmes, sum.Roommates)
	return nil
}
