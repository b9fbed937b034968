package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pathshadow/internal/model"
	"pathshadow/internal/shadow"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")). // Sky Blue/Cyan
			Bold(true)

	adviceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")) // Orange

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("63"))
)

// Layout: two bordered panels side by side, plus a two-line footer.
func leftPanelWidth(width int) int {
	netWidth := width - 6
	if netWidth < 20 {
		netWidth = 20
	}
	return netWidth / 2
}

func rightPanelWidth(width int) int {
	netWidth := width - 6
	if netWidth < 20 {
		netWidth = 20
	}
	return netWidth - netWidth/2
}

func panelHeight(height int) int {
	h := height - 8
	if h < 4 {
		h = 4
	}
	return h
}

func (m AppModel) View() string {
	if m.Loading {
		return "\n  Scanning PATH directories... please wait.\n"
	}
	if m.Err != nil {
		return fmt.Sprintf("\n  Error: %v\n\n  Press q to quit.\n", m.Err)
	}

	leftWidth := leftPanelWidth(m.WindowSize.Width)
	interiorHeight := panelHeight(m.WindowSize.Height)

	// LEFT PANEL: shadowed names
	var leftView strings.Builder
	leftView.WriteString(titleStyle.Render(fmt.Sprintf("Shadowed Files (%d)", len(m.Report.Shadows))))
	leftView.WriteString("\n\n")

	visibleItems := interiorHeight - 2
	if visibleItems < 1 {
		visibleItems = 1
	}
	startIdx := 0
	endIdx := len(m.FilteredIndices)
	if len(m.FilteredIndices) > visibleItems {
		if m.SelectedIdx >= visibleItems/2 {
			startIdx = m.SelectedIdx - (visibleItems / 2)
		}
		if startIdx+visibleItems > len(m.FilteredIndices) {
			startIdx = len(m.FilteredIndices) - visibleItems
		}
		endIdx = startIdx + visibleItems
	}

	if len(m.FilteredIndices) == 0 {
		if m.SearchActive {
			leftView.WriteString(dimStyle.Render("No matching names."))
		} else {
			leftView.WriteString(dimStyle.Render("No shadowed files found in PATH."))
		}
		leftView.WriteString("\n")
	}

	for i := startIdx; i < endIdx; i++ {
		occ := m.Report.Shadows[m.FilteredIndices[i]]
		line := fmt.Sprintf("%s (%d shadowed)", occ.Name, len(occ.Shadowed()))
		if len(line) > leftWidth-2 && leftWidth > 5 {
			line = line[:leftWidth-5] + "..."
		}
		if i == m.SelectedIdx {
			leftView.WriteString(selectedStyle.Render(line))
		} else {
			leftView.WriteString(normalStyle.Render(line))
		}
		leftView.WriteString("\n")
	}

	left := panelStyle.
		Width(leftWidth).
		Height(interiorHeight).
		Render(strings.TrimSuffix(leftView.String(), "\n"))

	right := panelStyle.
		Width(m.DetailsViewport.Width).
		Height(interiorHeight).
		Render(m.DetailsViewport.View())

	status := fmt.Sprintf("Searched %d PATH directories", m.Report.DirectoriesSearched)
	if n := len(m.Report.Faults); n > 0 {
		status += adviceStyle.Render(fmt.Sprintf(" • %d %s warning(s), press d", n, model.IconFault))
	}
	if m.Report.Partial {
		status += adviceStyle.Render(" • partial scan")
	}

	help := "↑/↓: Navigate • w: Filter • d: Warnings • PgUp/PgDn: Scroll details • r: Rescan • q: Quit"
	footer := "\n" + status + "\n" + dimStyle.Render(help)
	if m.InputMode {
		footer = "\n" + status + fmt.Sprintf("\nFilter: %s", m.InputBuffer.View())
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right) + footer
}

// renderDetails builds the right panel: the selected name's candidates, or
// the warnings list when toggled.
func (m AppModel) renderDetails() string {
	var sb strings.Builder

	if m.ShowFaults {
		sb.WriteString(titleStyle.Render("Warnings"))
		sb.WriteString("\n")
		if len(m.Report.Faults) == 0 {
			sb.WriteString("\n" + model.IconOK + " Every directory was listed.")
		}
		for _, f := range m.Report.Faults {
			sb.WriteString(adviceStyle.Render(fmt.Sprintf("\n%s %s", model.IconFault, shadow.DescribeFault(f))))
		}
		return sb.String()
	}

	sb.WriteString(titleStyle.Render("Details"))
	sb.WriteString("\n")

	occ, ok := m.selected()
	if !ok {
		sb.WriteString("\nNo entries found.")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("\nFile:       %s", occ.Name))
	sb.WriteString(fmt.Sprintf("\nFound in:   %d directories", len(occ.Candidates)))

	for i, c := range occ.Candidates {
		label := "Shadowed"
		icon := model.IconShadowed
		style := dimStyle
		if i == 0 {
			label = "Active (first in PATH)"
			icon = model.IconActive
			style = activeStyle
		}
		sb.WriteString("\n\n")
		sb.WriteString(style.Render(fmt.Sprintf("%s %s", icon, label)))
		sb.WriteString(fmt.Sprintf("\nPath:       %s", c.Path))
		sb.WriteString(fmt.Sprintf("\nPriority:   %d", c.Ordinal+1))

		if m.files == nil {
			continue
		}
		info := model.GetFileDetails(m.files, c.Path)
		if info.ErrorMsg != "" {
			sb.WriteString("\n" + info.ErrorMsg)
			continue
		}
		sb.WriteString(fmt.Sprintf("\nSize:       %d bytes", info.Size))
		sb.WriteString(fmt.Sprintf("\nMode:       %s", info.Mode))
		sb.WriteString(fmt.Sprintf("\nModified:   %s", info.ModTime))
		if info.IsSymlink {
			sb.WriteString(fmt.Sprintf("\nSymlink:    %s %s", model.IconSymlink, info.SymlinkTarget))
			if info.BrokenLink {
				sb.WriteString(" (Broken Link)")
			}
		}
	}

	return sb.String()
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, InitScanCmd(m.scan))
}
