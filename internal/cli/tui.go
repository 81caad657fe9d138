package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joacominatel/minadmin/internal/app"
	"github.com/joacominatel/minadmin/internal/config"
	"github.com/joacominatel/minadmin/internal/tui"
)

func runTUI(service *app.Service, cfg *config.Config, cfgPath, dsn string) error {
	model := tui.NewModel(service, cfg, cfgPath, dsn)
	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}
