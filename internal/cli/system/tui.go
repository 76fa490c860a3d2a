package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/campusmate/campusmate/internal/cli"
	"github.com/campusmate/campusmate/internal/tui"
)

type TuiCmd struct {
	Viewer string `help:"User ID to browse roommates as. Defaults to viewer.user_id from the config."`
}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	ctx.PerformAutomaticBackup()

	viewer := c.Viewer
	if viewer == "" && ctx.Config != nil {
		viewer = ctx.Config.Viewer.UserID
	}

	p := tea.NewProgram(tui.NewModel(ctx.Context(), ctx.Service, viewer), tea.WithAltScreen(), tea.WithContext(ctx.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard exited with an error: %w", err)
	}
	return nil
}
