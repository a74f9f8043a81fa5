// Package report renders fixed-width text tables for inventory and order
// reports.
//
// A table is described once by a Layout and then written row by row into a
// strings.Builder. Every column carries its own borders, so adjacent columns
// usually give a leading border only and the last column both:
//
//	layout, err := report.NewLayout().
//		Column("|L", 11).
//		Column("||R", 13).
//		Build()
//
// Rows and lines accept a routing mask as first argument, a string starting
// with '@' followed by one character per column. See Table.Line and Table.Row.
package report

import (
	"fmt"

	"github.com/rl1809/order-desk/internal/core/domain"
)

type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Column is one fixed-width column. A zero border rune means no border.
type Column struct {
	Leading  rune
	Trailing rune
	Align    Align
	Width    int
}

func (c Column) borders() int {
	n := 0
	if c.Leading != 0 {
		n++
	}
	if c.Trailing != 0 {
		n++
	}
	return n
}

// ContentWidth is the width left for cell content.
func (c Column) ContentWidth() int {
	return c.Width - c.borders()
}

// Layout is an immutable sequence of columns.
type Layout struct {
	columns []Column
}

func (l Layout) Columns() []Column {
	out := make([]Column, len(l.columns))
	copy(out, l.columns)
	return out
}

func (l Layout) Len() int { return len(l.columns) }

// LayoutBuilder collects column definitions. The first invalid definition
// is reported by Build.
type LayoutBuilder struct {
	columns []Column
	err     error
}

func NewLayout() *LayoutBuilder {
	return &LayoutBuilder{}
}

// Column adds a column. template holds up to two border characters, '|' or
// ' ', the first being the leading and the second the trailing border,
// optionally followed by an alignment letter 'L' or 'R'. width is the full
// column width including borders.
func (b *LayoutBuilder) Column(template string, width int) *LayoutBuilder {
	if b.err != nil {
		return b
	}
	col, err := parseColumn(template, width)
	if err != nil {
		b.err = fmt.Errorf("column %d: %w", len(b.columns), err)
		return b
	}
	b.columns = append(b.columns, col)
	return b
}

func (b *LayoutBuilder) Build() (Layout, error) {
	if b.err != nil {
		return Layout{}, b.err
	}
	if len(b.columns) == 0 {
		return Layout{}, domain.NewInvalidArgument("layout has no columns")
	}
	cols := make([]Column, len(b.columns))
	copy(cols, b.columns)
	return Layout{columns: cols}, nil
}

func parseColumn(template string, width int) (Column, error) {
	col := Column{Width: width}
	runes := []rune(template)

	var borders []rune
	i := 0
	for ; i < len(runes) && len(borders) < 2; i++ {
		r := runes[i]
		if r != '|' && r != ' ' {
			break
		}
		borders = append(borders, r)
	}
	if len(borders) > 0 {
		col.Leading = borders[0]
	}
	if len(borders) > 1 {
		col.Trailing = borders[1]
	}

	if i < len(runes) {
		switch runes[i] {
		case 'L':
			col.Align = AlignLeft
		case 'R':
			col.Align = AlignRight
		default:
			return Column{}, domain.NewInvalidArgument("template %q: unexpected %q", template, runes[i])
		}
		i++
	}
	if i != len(runes) {
		return Column{}, domain.NewInvalidArgument("template %q: trailing characters", template)
	}
	if width <= col.borders() {
		return Column{}, domain.NewInvalidArgument("template %q: width %d leaves no room for content", template, width)
	}
	return col, nil
}

func mustLayout(b *LayoutBuilder) Layout {
	l, err := b.Build()
	if err != nil {
		panic(err)
	}
	return l
}
