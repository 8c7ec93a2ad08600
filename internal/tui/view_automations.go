package tui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/example/ibozctl/internal/api"
)

func (m *Model) renderAutomations() (string, int) {
	state := m.data.automations.State()
	status, ok := m.statusLine(state.Loading, state.Err, state.Data != nil)
	if !ok {
		return status, -1
	}
	res := state.Data
	s := m.panelStyles()
	width := m.contentWidth()

	var lines []string
	if status != "" {
		lines = append(lines, status, "")
	}

	o := res.Overview
	lines = append(lines,
		s.sectionTitle("Automation overview", ""),
		fmt.Sprintf("  %s active  ·  %s coverage  ·  %s avg saved",
			s.value.Bold(true).Render(fmt.Sprint(o.Active)),
			s.value.Bold(true).Render(formatPercent(o.AutomationCoverage)),
			s.value.Bold(true).Render(fmt.Sprintf("%d min", o.AvgTimeSaved)),
		),
		"",
		s.sectionTitle("Simulation output", ""),
	)
	lines = append(lines, m.renderTestResult()...)

	lines = append(lines, "", s.sectionTitle("Templates", ""))
	cursorLine := -1
	running := m.runner.dispatcher.State().Loading
	for i, t := range res.Templates {
		selected := i == m.runner.cursor
		if selected {
			cursorLine = len(lines)
		}
		simulating := running && m.runner.dispatcher.InFlightFor(t.ID)
		lines = append(lines, m.renderTemplate(t, selected, simulating, width)...)
	}
	if len(res.Templates) == 0 {
		lines = append(lines, s.dim.Render("  No automation templates"))
	}
	return strings.Join(lines, "\n"), cursorLine
}

func (m *Model) renderTemplate(t api.AutomationTemplate, selected, simulating bool, width int) []string {
	s := m.panelStyles()
	name := s.title.Render(t.Name)
	if selected {
		name = s.selected.Render(t.Name)
	}
	approval := s.success.Render("Auto Execute")
	if t.RequiresApproval {
		approval = s.warn.Render("Approval Required")
	}
	head := cursorPrefix(selected) + name + "  " + approval
	if simulating {
		head += "  " + s.dim.Render(m.ui.spinner.View()+" Simulating...")
	}

	lines := []string{head}
	for _, line := range wrapTextLines(t.Description, width-6, 3) {
		lines = append(lines, "    "+s.label.Render(line))
	}
	lines = append(lines, "    "+s.dim.Render("Trigger  ")+s.value.Render(t.Trigger))
	if len(t.Conditions) > 0 {
		lines = append(lines, "    "+s.dim.Render("When     ")+s.value.Render(strings.Join(t.Conditions, "; ")))
	}
	for _, action := range t.Actions {
		lines = append(lines, "    "+s.dim.Render("  • ")+s.value.Render(action))
	}
	var meta []string
	if t.Owner != "" {
		meta = append(meta, "Owner "+t.Owner)
	}
	if t.LastRun != "" {
		meta = append(meta, "Last run "+t.LastRun)
	}
	if len(meta) > 0 {
		lines = append(lines, "    "+s.dim.Render(strings.Join(meta, " · ")))
	}
	return lines
}

// renderTestResult draws the outcome of the latest simulated run.
func (m *Model) renderTestResult() []string {
	s := m.panelStyles()
	state := m.runner.dispatcher.State()
	switch {
	case state.Err != "":
		return []string{
			"  " + s.err.Bold(true).Render("Simulation failed"),
			"  " + s.err.Render(state.Err),
		}
	case state.Loading:
		return []string{"  " + s.dim.Render(m.ui.spinner.View()+" Simulating "+m.runner.dispatcher.Key()+"...")}
	case state.Data == nil || state.Data.Status == "":
		return []string{"  " + s.dim.Render("Select an automation to view the simulation summary.")}
	}

	r := state.Data
	approval := "Auto-execute"
	if r.Review.RequiresApproval {
		approval = "Required"
	}
	lines := []string{
		"  " + s.title.Render(strings.ToUpper(r.Status)) + "  " + s.dim.Render(r.TemplateID),
		"  " + s.value.Render(r.Summary),
		"  " + s.dim.Render("Confidence ") + s.value.Bold(true).Render(formatPercent(r.Review.Confidence)) +
			"   " + s.dim.Render("Approval ") + s.value.Bold(true).Render(approval),
	}
	if len(r.Parameters) > 0 {
		lines = append(lines, "  "+s.dim.Render("Parameters"))
		lines = append(lines, m.renderParameters(r.Parameters))
	}
	return lines
}

func (m *Model) renderParameters(params map[string]any) string {
	body, err := json.MarshalIndent(params, "", "  ")
	if err != nil {
		return fmt.Sprint(params)
	}
	return m.renderMarkdown("```json\n" + string(body) + "\n```")
}
