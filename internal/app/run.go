package app

import (
	"fmt"
	"log/slog"
	"os"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"dnarelationships/internal/logging"
	"dnarelationships/relationships"
)

const (
	fyneAppID   = "dnarelationships.desktop"
	windowTitle = "DNA Relationships"
)

// Run loads configuration and reference tables, then starts the desktop UI. A load
// failure is shown in an error dialog before Run returns it.
func Run() error {
	a := fyneapp.NewWithID(fyneAppID)
	cfg, calc, logger, err := startup("")
	if err != nil {
		showFatalError(a, err).ShowAndRun()
		return err
	}
	u := buildUI(a, calc, cfg, logger)
	u.w.ShowAndRun()
	return nil
}

// startup reads the config at path, writing a default one on first run, and opens
// the calculator.
func startup(path string) (relationships.Config, *relationships.Calculator, *slog.Logger, error) {
	cfg, found, err := relationships.LoadConfigFile(path)
	if err != nil {
		return cfg, nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger := logging.New(os.Stderr, cfg.LogLevel)
	if !found {
		if err := relationships.SaveConfig(path, relationships.DefaultConfig()); err != nil {
			logger.Warn("default config not written", slog.Any("error", err))
		} else {
			logger.Info("default config written", slog.String("path", relationships.ConfigPath(path)))
		}
	}
	calc, err := relationships.Open(cfg, logging.Module(logger, "relationships"))
	if err != nil {
		return cfg, nil, logger, err
	}
	return cfg, calc, logger, nil
}

func showFatalError(a fyne.App, err error) fyne.Window {
	w := a.NewWindow(windowTitle)
	w.SetContent(widget.NewLabel(fmt.Sprintf("DNA Relationships could not start:\n%v", err)))
	w.Resize(fyne.NewSize(480, 200))
	d := dialog.NewError(err, w)
	d.SetOnClosed(w.Close)
	d.Show()
	return w
}
