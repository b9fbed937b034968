package shadow

import (
	"fmt"
	"strings"

	"pathshadow/internal/model"
)

// GenerateReport renders a Shadow Report as plain text. Verbose adds
// directory ordinals and per-candidate priorities.
func GenerateReport(report model.ShadowReport, verbose bool) string {
	var sb strings.Builder

	sb.WriteString("PATH Shadow Detector\n")
	sb.WriteString("====================\n\n")

	fmt.Fprintf(&sb, "Found %d valid directories in PATH:\n", len(report.Directories))
	for _, dir := range report.Directories {
		if verbose {
			fmt.Fprintf(&sb, "  [%d] %s\n", dir.Ordinal, dir.Path)
		} else {
			fmt.Fprintf(&sb, "  %s\n", dir.Path)
		}
	}
	sb.WriteString("\n")

	if !report.HasShadows() {
		sb.WriteString("No shadowed files found in PATH.\n")
	} else {
		fmt.Fprintf(&sb, "Found %d file(s) with shadows:\n\n", len(report.Shadows))
		for _, occ := range report.Shadows {
			fmt.Fprintf(&sb, "File: %s\n", occ.Name)
			active := occ.Active()
			if verbose {
				fmt.Fprintf(&sb, "  Active (first in PATH): %s  [%d]\n", active.Path, active.Ordinal)
			} else {
				fmt.Fprintf(&sb, "  Active (first in PATH): %s\n", active.Path)
			}
			for _, c := range occ.Shadowed() {
				if verbose {
					fmt.Fprintf(&sb, "  Shadowed: %s  [%d]\n", c.Path, c.Ordinal)
				} else {
					fmt.Fprintf(&sb, "  Shadowed: %s\n", c.Path)
				}
			}
			sb.WriteString("\n")
		}
	}

	if len(report.Faults) > 0 {
		sb.WriteString("Warnings:\n")
		for _, f := range report.Faults {
			fmt.Fprintf(&sb, "  %s\n", DescribeFault(f))
		}
		sb.WriteString("\n")
	}

	if report.Partial {
		sb.WriteString("Scan was interrupted; results are partial.\n")
	}
	fmt.Fprintf(&sb, "Searched %d PATH directories.\n", report.DirectoriesSearched)
	if verbose {
		fmt.Fprintf(&sb, "Matched %d candidate file(s).\n", report.CandidatesSeen)
	}

	return sb.String()
}

// DescribeFault returns a one-line, human-readable warning for a fault.
func DescribeFault(f model.ScanFault) string {
	switch f.Kind {
	case model.FaultPermission:
		return fmt.Sprintf("Access denied to directory: %s", f.Directory.Path)
	case model.FaultNotFound:
		return fmt.Sprintf("Directory not found: %s", f.Directory.Path)
	case model.FaultTimeout:
		return fmt.Sprintf("Timed out reading directory: %s", f.Directory.Path)
	default:
		return fmt.Sprintf("Error reading directory %s: %s", f.Directory.Path, f.Message)
	}
}
