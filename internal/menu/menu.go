// Package menu builds the compact status menu: the newest few history
// entries as single-line labels followed by the fixed actions.
package menu

import (
	"fmt"
	"io"
	"strings"

	"github.com/rivo/uniseg"
)

const (
	// DefaultSize is how many entries the menu shows.
	DefaultSize = 5

	// MaxLabel is the longest label shown untruncated, in characters.
	MaxLabel = 30

	ellipsis = "..."
)

// Fixed actions shown below the entries.
const (
	ActionShowWindow = "Show Clipboard Window"
	ActionQuit       = "Quit"
)

// Item is one entry row of the menu.
type Item struct {
	Index int    `json:"index"`
	Label string `json:"label"`
}

// Menu is the rendered status menu.
type Menu struct {
	Items   []Item   `json:"items"`
	Actions []string `json:"actions"`
}

// Build returns the menu for entries (newest first), showing at most size of
// them. A non-positive size uses DefaultSize.
func Build(entries []string, size int) Menu {
	if size <= 0 {
		size = DefaultSize
	}
	n := min(size, len(entries))
	m := Menu{
		Items:   make([]Item, 0, n),
		Actions: []string{ActionShowWindow, ActionQuit},
	}
	for i, e := range entries[:n] {
		m.Items = append(m.Items, Item{Index: i, Label: Label(e)})
	}
	return m
}

// Label flattens text onto one line and truncates it to MaxLabel characters.
// Characters are grapheme clusters, so combined emoji and accents count once.
func Label(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	return Truncate(text, MaxLabel)
}

// Truncate shortens text longer than limit characters to its first limit-3
// characters followed by "...".
func Truncate(text string, limit int) string {
	if uniseg.GraphemeClusterCount(text) <= limit {
		return text
	}
	keep := limit - len(ellipsis)
	if keep < 0 {
		keep = 0
	}
	var b strings.Builder
	g := uniseg.NewGraphemes(text)
	for i := 0; i < keep && g.Next(); i++ {
		b.WriteString(g.Str())
	}
	b.WriteString(ellipsis)
	return b.String()
}

// Render writes m as plain text, one row per line.
func (m Menu) Render(w io.Writer) error {
	if len(m.Items) == 0 {
		if _, err := fmt.Fprintln(w, "(no clipboard history)"); err != nil {
			return err
		}
	}
	for _, it := range m.Items {
		if _, err := fmt.Fprintf(w, "%2d  %s\n", it.Index, it.Label); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, "----"); err != nil {
		return err
	}
	for _, a := range m.Actions {
		if _, err := fmt.Fprintln(w, a); err != nil {
			return err
		}
	}
	return nil
}
