// Package render lays tasks out as lines of text.
package render

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// SizeKind says how a cell's width bound is applied.
type SizeKind int

const (
	// AtLeast pads short content up to the width.
	AtLeast SizeKind = iota
	// AtMost cuts long content down to the width and pads short content.
	AtMost
)

// Size bounds the width of a cell, in terminal columns.
type Size struct {
	Kind  SizeKind
	Width int
}

func Min(width int) Size { return Size{Kind: AtLeast, Width: width} }
func Max(width int) Size { return Size{Kind: AtMost, Width: width} }

// Margin is blank space around a cell's content.
type Margin struct {
	Left, Right int
}

// Cell is one column entry of a formatted line. The zero value is a visible
// cell with no margin and no width bound.
type Cell struct {
	Content string
	Hidden  bool
	Margin  Margin
	Size    Size
}

func (c Cell) WithContent(s string) Cell {
	c.Content = s
	return c
}

func (c Cell) WithHidden(hidden bool) Cell {
	c.Hidden = hidden
	return c
}

func (c Cell) WithMargin(left, right int) Cell {
	c.Margin = Margin{Left: left, Right: right}
	return c
}

func (c Cell) WithSize(size Size) Cell {
	c.Size = size
	return c
}

// String renders the cell. Width is measured in terminal columns, so wide
// characters and escape sequences are accounted for.
func (c Cell) String() string {
	if c.Hidden {
		return ""
	}
	content := c.Content
	if c.Size.Kind == AtMost && ansi.StringWidth(content) > c.Size.Width {
		content = ansi.Truncate(content, max(c.Size.Width, 0), "")
	}
	pad := max(c.Size.Width-ansi.StringWidth(content), 0)

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", max(c.Margin.Left, 0)))
	b.WriteString(content)
	b.WriteString(strings.Repeat(" ", pad+max(c.Margin.Right, 0)))
	return b.String()
}
