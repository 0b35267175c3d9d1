//go:build darwin || linux || windows

package clip

import (
	"log/slog"
	"runtime"

	"golang.design/x/clipboard"
)

type systemBackend struct {
	name string
}

// New returns the system clipboard backend, or a headless no-op backend if
// the clipboard cannot be initialised (e.g. Linux without X11). Init happens
// here rather than in init() so that CLI sub-commands which never touch the
// clipboard don't log spurious warnings.
func New() Backend {
	if err := clipboard.Init(); err != nil {
		slog.Warn("clipboard unavailable, running headless", "err", err)
		return headlessBackend{}
	}
	return &systemBackend{name: systemName()}
}

func systemName() string {
	switch runtime.GOOS {
	case "darwin":
		return "macOS NSPasteboard"
	case "windows":
		return "Windows Clipboard"
	default:
		return "Linux clipboard"
	}
}

func (b *systemBackend) Name() string { return b.name }

func (b *systemBackend) ReadText() (string, error) {
	return string(clipboard.Read(clipboard.FmtText)), nil
}

func (b *systemBackend) WriteText(text string) error {
	// The returned channel signals loss of ownership; nothing to do with it.
	_ = clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

func (b *systemBackend) Close() {}
