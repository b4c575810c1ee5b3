package app

import (
	"errors"
	"log/slog"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"dnarelationships/internal/logging"
	"dnarelationships/relationships"
)

type uiState struct {
	calc   *relationships.Calculator
	nf     *relationships.NumberFormat
	cfg    relationships.Config
	logger *slog.Logger

	w          fyne.Window
	input      *widget.Entry
	unit       *widget.RadioGroup
	computeBtn *widget.Button
	results    *widget.Accordion
	empty      *widget.Label
	percent    *widget.Label
	cm         *widget.Label

	// rewriting is set while the entry is updated from a clamp, so the edit
	// does not clear the results it belongs to.
	rewriting bool
}

func buildUI(a fyne.App, calc *relationships.Calculator, cfg relationships.Config, logger *slog.Logger) *uiState {
	u := &uiState{calc: calc, nf: calc.NumberFormat(), cfg: cfg, logger: logging.Module(logger, "ui")}
	u.w = a.NewWindow(windowTitle)

	u.input = widget.NewEntry()
	u.input.SetPlaceHolder("Shared DNA, e.g. 1,250 or 16.8")
	u.input.OnChanged = func(string) { u.onInputChanged() }
	u.input.OnSubmitted = func(string) {
		if !u.computeBtn.Disabled() {
			u.onCompute()
		}
	}

	u.unit = widget.NewRadioGroup([]string{unitLabelCM, unitLabelPercent}, nil)
	u.unit.Horizontal = true
	u.unit.Required = true
	u.unit.Selected = unitLabelCM
	u.unit.OnChanged = func(string) { u.clearResults() }

	u.computeBtn = widget.NewButtonWithIcon("Calculate", theme.ConfirmIcon(), func() { u.onCompute() })
	u.computeBtn.Disable()

	u.results = widget.NewAccordion()
	u.results.MultiOpen = true
	u.empty = widget.NewLabel("")
	u.empty.Hide()
	u.percent = widget.NewLabel("")
	u.cm = widget.NewLabel("")

	top := container.NewVBox(
		widget.NewLabelWithStyle("Shared DNA", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewBorder(nil, nil, nil, u.unit, u.input),
		u.computeBtn,
		widget.NewSeparator(),
	)
	bottom := container.NewVBox(widget.NewSeparator(), u.percent, u.cm)
	center := container.NewVScroll(container.NewVBox(u.empty, u.results))

	u.w.SetMainMenu(u.mainMenu())
	u.w.SetContent(container.NewBorder(top, bottom, nil, nil, center))
	u.w.Resize(fyne.NewSize(480, 640))
	return u
}

func (u *uiState) mainMenu() *fyne.MainMenu {
	view := fyne.NewMenu("View",
		fyne.NewMenuItem("Expand all", func() { u.results.OpenAll() }),
		fyne.NewMenuItem("Collapse all", func() { u.results.CloseAll() }),
	)
	help := fyne.NewMenu("Help",
		fyne.NewMenuItem("Help", func() { dialog.ShowInformation("Help", helpText, u.w) }),
		fyne.NewMenuItem("About", func() {
			dialog.ShowInformation("About", aboutText(u.cfg, u.calc.Tables()), u.w)
		}),
	)
	return fyne.NewMainMenu(view, help)
}

func (u *uiState) onInputChanged() {
	if strings.TrimSpace(u.input.Text) == "" {
		u.computeBtn.Disable()
	} else {
		u.computeBtn.Enable()
	}
	if !u.rewriting {
		u.clearResults()
	}
}

func (u *uiState) clearResults() {
	u.results.Items = nil
	u.results.Refresh()
	u.empty.Hide()
	u.percent.SetText("")
	u.cm.SetText("")
}

func (u *uiState) onCompute() {
	res, err := u.calc.ComputeRelationships(u.input.Text, unitForLabel(u.unit.Selected))
	if err != nil {
		u.clearResults()
		if errors.Is(err, relationships.ErrInvalidInput) {
			dialog.ShowInformation("Invalid value", "Please enter a number, such as 1250 or 16.8", u.w)
			return
		}
		u.logger.Error("relationship lookup failed", slog.Any("error", err))
		dialog.ShowError(err, u.w)
		return
	}
	if text, ok := clampedEntryText(u.nf, res); ok {
		u.rewriting = true
		u.input.SetText(text)
		u.rewriting = false
		dialog.ShowInformation("Value adjusted", clampMessage(res), u.w)
	}
	u.showResult(res)
}

func (u *uiState) showResult(res relationships.Result) {
	items := make([]*widget.AccordionItem, 0, len(res.Buckets))
	for _, b := range res.Buckets {
		names := container.NewVBox()
		for _, name := range b.Names {
			names.Add(widget.NewLabel(name))
		}
		items = append(items, widget.NewAccordionItem(bucketTitle(u.nf, b), names))
	}
	u.results.Items = items
	u.results.Refresh()
	if len(items) == 0 {
		u.empty.SetText("No relationships found")
		u.empty.Show()
	} else {
		u.empty.Hide()
	}
	u.percent.SetText(percentText(u.nf, res))
	u.cm.SetText(centimorgansText(u.nf, res))
}
