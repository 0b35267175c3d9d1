// Package clip provides text access to the system clipboard. Build
// constraints select the implementation:
//
//	clip_system.go: macOS, Linux and Windows via golang.design/x/clipboard
//	clip_other.go:  headless stub for every other platform
//
// Only plain text is read and written. An empty or non-text clipboard reads
// as "".
package clip

// Backend is the interface that all clipboard implementations satisfy.
type Backend interface {
	// Name returns a human-readable name for the backend.
	Name() string

	// ReadText returns the current clipboard text, or "" if the clipboard
	// is empty or holds no text.
	ReadText() (string, error)

	// WriteText replaces the clipboard contents with text.
	WriteText(text string) error

	// Close releases any resources held by the backend.
	Close()
}

// headlessBackend is a no-op backend for environments without a display
// server. Reads are always empty and writes are discarded.
type headlessBackend struct{}

func (headlessBackend) Name() string              { return "headless (no-op)" }
func (headlessBackend) ReadText() (string, error) { return "", nil }
func (headlessBackend) WriteText(_ string) error  { return nil }
func (headlessBackend) Close()                    {}
