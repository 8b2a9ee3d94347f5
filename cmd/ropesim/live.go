package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/ropesim/internal/config"
	"github.com/san-kum/ropesim/internal/scenario"
	"github.com/san-kum/ropesim/internal/viz"
	"github.com/san-kum/ropesim/internal/watch"
	"github.com/spf13/cobra"
)

func runLive(cmd *cobra.Command, args []string) error {
	name := "hanging"
	if len(args) > 0 {
		name = args[0]
	}

	cfg, err := resolveConfig(cmd, name)
	if err != nil {
		return err
	}
	viz.SetTheme(themeName)

	reg := scenario.NewRegistry()
	model, err := viz.NewModel(cfg, func(c *config.Config) (*scenario.Scene, error) {
		return reg.Build(name, c)
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())

	if watchConfig {
		if configFile == "" {
			return fmt.Errorf("--watch needs --config")
		}
		w, err := watch.NewWatcher(configFile)
		if err != nil {
			return err
		}
		defer w.Close()

		go func() {
			for {
				select {
				case path, ok := <-w.Events:
					if !ok {
						return
					}
					logger.Debug("config changed", "path", path)
					next, err := resolveConfig(cmd, name)
					if err != nil {
						p.Send(viz.ReloadErrMsg{Err: err})
						continue
					}
					p.Send(viz.ReloadMsg{Config: next})
				case err, ok := <-w.Errors:
					if !ok {
						return
					}
					p.Send(viz.ReloadErrMsg{Err: err})
				}
			}
		}()
	}

	_, err = p.Run()
	return err
}
