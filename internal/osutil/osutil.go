// Package osutil holds platform constants and helpers for interacting with
// the user's environment
package osutil

import (
	"io/fs"
	"os"
	"os/exec"
	"runtime"
)

const Windows = "windows"

type exitCode int

const ExitError exitCode = 1

const (
	DirPermission  fs.FileMode = 0o750
	FilePermission fs.FileMode = 0o600
)

// Editor returns the user's preferred text editor.
func Editor() string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if e := os.Getenv(env); e != "" {
			return e
		}
	}

	if runtime.GOOS == Windows {
		return "C:\\Windows\\system32\\notepad.exe"
	}

	return "nano"
}

// OpenInEditor opens path in the user's editor attached to the terminal.
func OpenInEditor(path string) error {
	cmd := exec.Command(Editor(), path)

	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout

	return cmd.Run()
}
