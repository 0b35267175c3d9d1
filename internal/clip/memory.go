package clip

import "sync"

// Memory is an in-process clipboard. It backs the daemon when started with
// --clipboard=memory and stands in for the system clipboard in tests.
type Memory struct {
	mu   sync.Mutex
	text string
	err  error
}

// NewMemory returns a Memory clipboard holding text.
func NewMemory(text string) *Memory {
	return &Memory{text: text}
}

func (m *Memory) Name() string { return "memory" }

func (m *Memory) ReadText() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

func (m *Memory) WriteText(text string) error {
	m.mu.Lock()
	m.text = text
	m.mu.Unlock()
	return nil
}

// FailReads makes subsequent reads return err until called with nil.
func (m *Memory) FailReads(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

func (m *Memory) Close() {}
