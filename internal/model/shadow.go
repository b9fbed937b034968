package model

import "fmt"

// Version is the current pathshadow release.
const Version = "0.3.0"

// DirectoryEntry is one resolved, existing directory of the search path.
type DirectoryEntry struct {
	Path    string `json:"path"`    // The directory as written in the search path
	Ordinal int    `json:"ordinal"` // Zero-based lookup priority
}

// Candidate is one executable file found while scanning a directory.
type Candidate struct {
	Name    string `json:"name"`    // Base file name with on-disk casing
	Path    string `json:"path"`    // Full path to the file
	Ordinal int    `json:"ordinal"` // Ordinal of the directory it came from
}

// OccurrenceList groups every candidate sharing one case-folded file name.
// Candidates are kept in ascending ordinal order; index 0 is the one a
// lookup actually finds.
type OccurrenceList struct {
	Name       string      `json:"name"` // Name as first encountered
	Key        string      `json:"key"`  // Case-folded grouping key
	Candidates []Candidate `json:"candidates"`
}

// Active returns the candidate that wins the search-path lookup.
func (o OccurrenceList) Active() Candidate {
	return o.Candidates[0]
}

// Shadowed returns the candidates hidden behind the active one.
func (o OccurrenceList) Shadowed() []Candidate {
	if len(o.Candidates) < 2 {
		return nil
	}
	return o.Candidates[1:]
}

// FaultKind classifies why a directory could not be listed.
type FaultKind string

const (
	FaultPermission FaultKind = "permission"
	FaultNotFound   FaultKind = "not-found"
	FaultTimeout    FaultKind = "timeout"
	FaultIO         FaultKind = "io"
)

// ScanFault records a directory that could not be listed. It never aborts
// a scan.
type ScanFault struct {
	Directory DirectoryEntry `json:"directory"`
	Kind      FaultKind      `json:"kind"`
	Err       error          `json:"-"`
	Message   string         `json:"message"`
}

func (f ScanFault) Error() string {
	return fmt.Sprintf("%s: %s", f.Directory.Path, f.Message)
}

func (f ScanFault) Unwrap() error {
	return f.Err
}

// ShadowReport is the result of one scan: every name found in more than
// one directory, in the order each name was first encountered.
type ShadowReport struct {
	Shadows             []OccurrenceList `json:"shadows"`
	Directories         []DirectoryEntry `json:"directories"`
	DirectoriesSearched int              `json:"directoriesSearched"`
	CandidatesSeen      int              `json:"candidatesSeen"`
	Faults              []ScanFault      `json:"faults"`
	Partial             bool             `json:"partial"` // Scan was cancelled before every directory was listed
}

// HasShadows reports whether any name is shadowed.
func (r ShadowReport) HasShadows() bool {
	return len(r.Shadows) > 0
}
