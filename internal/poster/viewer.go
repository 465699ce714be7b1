package poster

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Viewer shows an image to the player.
type Viewer interface {
	Show(ctx context.Context, name string, img image.Image) error
}

// FileViewer writes images as PNG files into a per-session directory and
// hands them to an external opener. With no opener it only prints the file
// location. Close removes the directory.
type FileViewer struct {
	dir        string
	sessionDir string
	command    []string
	out        io.Writer
}

// NewFileViewer builds a viewer from a POSTER_VIEWER-style setting: empty
// picks the platform opener, "none" disables opening, anything else is a
// command line that receives the file path as its last argument.
func NewFileViewer(dir, setting string, out io.Writer) *FileViewer {
	if dir == "" {
		dir = os.TempDir()
	}
	return &FileViewer{
		dir:     dir,
		command: openerCommand(setting, runtime.GOOS),
		out:     out,
	}
}

func openerCommand(setting, goos string) []string {
	setting = strings.TrimSpace(setting)
	switch {
	case strings.EqualFold(setting, "none"):
		return nil
	case setting != "":
		return strings.Fields(setting)
	}

	switch goos {
	case "darwin":
		return []string{"open"}
	case "windows":
		return []string{"cmd", "/c", "start", ""}
	default:
		return []string{"xdg-open"}
	}
}

func (v *FileViewer) Show(ctx context.Context, name string, img image.Image) error {
	if v.sessionDir == "" {
		sessionDir, err := os.MkdirTemp(v.dir, "popcorn-quiz-*")
		if err != nil {
			return err
		}
		v.sessionDir = sessionDir
	}

	file, err := os.CreateTemp(v.sessionDir, name+"-*.png")
	if err != nil {
		return err
	}
	if err := png.Encode(file, img); err != nil {
		_ = file.Close()
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := file.Close(); err != nil {
		return err
	}

	if len(v.command) == 0 {
		fmt.Fprintf(v.out, "(image saved to %s)\n", file.Name())
		return nil
	}

	args := append(append([]string{}, v.command[1:]...), file.Name())
	cmd := exec.CommandContext(ctx, v.command[0], args...)
	if err := cmd.Start(); err != nil {
		fmt.Fprintf(v.out, "(image saved to %s)\n", file.Name())
		return fmt.Errorf("open %s with %s: %w", file.Name(), v.command[0], err)
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

// Close deletes every image written during the session.
func (v *FileViewer) Close() error {
	if v.sessionDir == "" {
		return nil
	}
	err := os.RemoveAll(v.sessionDir)
	v.sessionDir = ""
	return err
}
