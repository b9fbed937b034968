package tui

import (
	"context"
	"strings"

	"pathshadow/internal/model"
	"pathshadow/internal/shadow"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// MsgScanReady indicates that the scan has completed.
type MsgScanReady model.ShadowReport

// MsgError indicates the scan could not run.
type MsgError struct{ Err error }

// Update handles events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		m.DetailsViewport.Width = rightPanelWidth(msg.Width)
		m.DetailsViewport.Height = panelHeight(msg.Height)
		m.refreshDetails()
		return m, nil

	case MsgScanReady:
		m.Loading = false
		m.Err = nil
		m.Report = model.ShadowReport(msg)
		m.performSearch()
		m.refreshDetails()
		return m, nil

	case MsgError:
		m.Err = msg.Err
		m.Loading = false
		return m, nil

	case tea.KeyMsg:
		if m.InputMode {
			switch msg.Type {
			case tea.KeyEnter:
				m.InputMode = false
				m.InputBuffer.Blur()
				m.performSearch()
				m.refreshDetails()
				return m, nil
			case tea.KeyEsc:
				m.InputMode = false
				m.InputBuffer.Blur()
				m.InputBuffer.SetValue("")
				m.performSearch()
				m.refreshDetails()
				return m, nil
			}
			m.InputBuffer, cmd = m.InputBuffer.Update(msg)
			// Filter as the user types
			m.performSearch()
			m.refreshDetails()
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			if m.SearchActive {
				m.InputBuffer.SetValue("")
				m.performSearch()
				m.refreshDetails()
			} else if m.ShowFaults {
				m.ShowFaults = false
				m.refreshDetails()
			}
		case "up", "k":
			if m.SelectedIdx > 0 {
				m.SelectedIdx--
				m.refreshDetails()
			}
		case "down", "j":
			if m.SelectedIdx < len(m.FilteredIndices)-1 {
				m.SelectedIdx++
				m.refreshDetails()
			}
		case "d":
			m.ShowFaults = !m.ShowFaults
			m.refreshDetails()
		case "r":
			if !m.Loading {
				m.Loading = true
				return m, InitScanCmd(m.scan)
			}
		case "w", "/":
			m.InputMode = true
			m.InputBuffer.SetValue("")
			m.InputBuffer.Focus()
			return m, textinput.Blink
		case "pgup", "pgdown", "ctrl+u", "ctrl+d":
			m.DetailsViewport, cmd = m.DetailsViewport.Update(msg)
			return m, cmd
		}
	}

	return m, cmd
}

// performSearch narrows the list to names starting with the search term.
func (m *AppModel) performSearch() {
	term := shadow.FoldName(strings.TrimSpace(m.InputBuffer.Value()))
	m.SearchActive = term != ""

	var result []int
	for i, occ := range m.Report.Shadows {
		if term == "" || strings.HasPrefix(shadow.FoldName(occ.Name), term) {
			result = append(result, i)
		}
	}
	m.FilteredIndices = result

	// Bounds check
	if m.SelectedIdx >= len(m.FilteredIndices) {
		if len(m.FilteredIndices) > 0 {
			m.SelectedIdx = len(m.FilteredIndices) - 1
		} else {
			m.SelectedIdx = 0
		}
	}
}

func (m *AppModel) refreshDetails() {
	m.DetailsViewport.SetContent(m.renderDetails())
	m.DetailsViewport.GotoTop()
}

// InitScanCmd runs the scan in the background.
func InitScanCmd(scan shadow.ScanFunc) tea.Cmd {
	return func() tea.Msg {
		report, err := scan(context.Background())
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgScanReady(report)
	}
}
