package model

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
)

// FileDetails describes one candidate on disk for display.
type FileDetails struct {
	Path          string `json:"path"`
	Size          int64  `json:"size"`
	Mode          string `json:"mode"`
	ModTime       string `json:"modTime"`
	IsSymlink     bool   `json:"isSymlink"`
	SymlinkTarget string `json:"symlinkTarget,omitempty"`
	BrokenLink    bool   `json:"brokenLink,omitempty"`
	Executable    bool   `json:"executable"`
	ErrorMsg      string `json:"error,omitempty"` // Set if the file couldn't be inspected
}

// GetFileDetails inspects path without following a final symlink, then
// reports where the link points if it is one.
func GetFileDetails(fsys afero.Fs, path string) FileDetails {
	result := FileDetails{Path: path}

	var info os.FileInfo
	var err error
	if lst, ok := fsys.(afero.Lstater); ok {
		info, _, err = lst.LstatIfPossible(path)
	} else {
		info, err = fsys.Stat(path)
	}
	if err != nil {
		result.ErrorMsg = fmt.Sprintf("Could not inspect file: %v", err)
		return result
	}

	result.Size = info.Size()
	result.Mode = info.Mode().String()
	result.ModTime = info.ModTime().Format("2006-01-02 15:04:05")

	if info.Mode()&os.ModeSymlink != 0 {
		result.IsSymlink = true
		if lr, ok := fsys.(afero.LinkReader); ok {
			if target, err := lr.ReadlinkIfPossible(path); err == nil {
				result.SymlinkTarget = target
			}
		}
		// Executable bits belong to the target
		tInfo, err := fsys.Stat(path)
		if err != nil {
			result.BrokenLink = true
			return result
		}
		info = tInfo
	}

	// Check bit 0100 (User Exec), 0010 (Group), 0001 (Other)
	perm := info.Mode().Perm()
	result.Executable = (perm&0100) != 0 || (perm&0010) != 0 || (perm&0001) != 0
	return result
}
