package editor

import (
	"bytes"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
)

// PreferredEditor finds a suitable editor from env or common defaults.
func PreferredEditor() (string, error) {
	if v := os.Getenv("VISUAL"); v != "" {
		return v, nil
	}
	if e := os.Getenv("EDITOR"); e != "" {
		return e, nil
	}
	for _, cand := range []string{"nvim", "vim", "vi", "nano"} {
		if p, err := exec.LookPath(cand); err == nil {
			return p, nil
		}
	}
	return "", errors.New("no editor found; set $EDITOR or $VISUAL")
}

// Stdio is the terminal the editor runs on.
type Stdio struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Open runs the editor on an existing file and reports whether its
// content changed.
func Open(path string, stdio Stdio) (changed bool, err error) {
	before, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	ed, err := PreferredEditor()
	if err != nil {
		return false, err
	}
	// Honor VISUAL/EDITOR including flags by running via a shell wrapper.
	cmd := exec.Command("sh", "-c", "$EDITORCMD \"$FILEPATH\"")
	cmd.Env = append(os.Environ(), "EDITORCMD="+strings.TrimSpace(ed), "FILEPATH="+path)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = stdio.In, stdio.Out, stdio.Err
	if err := cmd.Run(); err != nil {
		return false, err
	}
	after, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	return !bytes.Equal(before, after), nil
}
