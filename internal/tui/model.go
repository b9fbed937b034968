package tui

import (
	"pathshadow/internal/model"
	"pathshadow/internal/shadow"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
)

// AppModel holds the TUI state.
type AppModel struct {
	// Data
	Report  model.ShadowReport
	Loading bool
	Err     error

	// Collaborators
	scan  shadow.ScanFunc
	files afero.Fs

	// UI State
	SelectedIdx int
	WindowSize  tea.WindowSizeMsg
	ShowFaults  bool

	// Search State
	InputMode       bool
	InputBuffer     textinput.Model
	FilteredIndices []int // Indices into Report.Shadows
	SearchActive    bool

	// Components
	DetailsViewport viewport.Model
}

// InitialModel returns the initial state.
func InitialModel(scan shadow.ScanFunc, files afero.Fs) AppModel {
	ti := textinput.New()
	ti.Placeholder = "File name..."
	ti.CharLimit = 50
	ti.Width = 20

	return AppModel{
		Loading:         true,
		scan:            scan,
		files:           files,
		InputBuffer:     ti,
		DetailsViewport: viewport.New(40, 10),
	}
}

// selected returns the occurrence list under the cursor.
func (m AppModel) selected() (model.OccurrenceList, bool) {
	if m.SelectedIdx < 0 || m.SelectedIdx >= len(m.FilteredIndices) {
		return model.OccurrenceList{}, false
	}
	return m.Report.Shadows[m.FilteredIndices[m.SelectedIdx]], true
}
