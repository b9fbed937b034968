package model

// Centralized icons for the UI components
// Using simple single-width characters for consistent terminal rendering
const (
	IconActive   = "▸" // Candidate that wins the lookup
	IconShadowed = "≈" // Candidate hidden by an earlier directory
	IconSymlink  = "→" // Right arrow (symlink)
	IconFault    = "✗" // Directory that could not be listed
	IconOK       = " " // Space (OK - no icon to reduce noise)
)
