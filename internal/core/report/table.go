package report

import (
	"strings"
	"unicode/utf8"
)

const maskMarker = "@"

// Table writes rows of a Layout into out. It keeps no state besides the
// destination, so several tables may share one builder.
type Table struct {
	out    *strings.Builder
	layout Layout
}

func NewTable(out *strings.Builder, layout Layout) *Table {
	return &Table{out: out, layout: layout}
}

func (t *Table) Layout() Layout { return t.layout }

// Line writes a separator. '|' borders become '+', everything else '-'.
// An optional mask "@..." holds one character per column: '-' draws the
// column, '=' draws it with '=' and ' ' leaves it blank. Columns without a
// mask character are drawn with '-'.
func (t *Table) Line(mask ...string) *Table {
	m := ""
	if len(mask) > 0 && strings.HasPrefix(mask[0], maskMarker) {
		m = strings.TrimPrefix(mask[0], maskMarker)
	}
	route := []rune(m)

	for i, col := range t.layout.columns {
		mode := '-'
		if i < len(route) {
			mode = route[i]
		}
		if mode == ' ' {
			t.out.WriteString(strings.Repeat(" ", col.Width))
			continue
		}
		fill := "-"
		if mode == '=' {
			fill = "="
		}
		t.writeBorder(col.Leading, fill)
		t.out.WriteString(strings.Repeat(fill, col.ContentWidth()))
		t.writeBorder(col.Trailing, fill)
	}
	t.out.WriteByte('\n')
	return t
}

func (t *Table) writeBorder(border rune, fill string) {
	switch border {
	case 0:
	case '|':
		t.out.WriteByte('+')
	default:
		t.out.WriteString(fill)
	}
}

// Row writes one value per column, truncated to the content width and
// aligned. Missing values are blank, extra values are dropped.
//
// A first value starting with '@' is a mask for the values after it, one
// character per column: '|' renders the cell normally, ' ' blanks its
// borders and '>' blanks its borders and fills the content with '>'.
// Columns without a mask character render normally.
func (t *Table) Row(values ...string) *Table {
	var route []rune
	if len(values) > 0 && strings.HasPrefix(values[0], maskMarker) {
		route = []rune(strings.TrimPrefix(values[0], maskMarker))
		values = values[1:]
	}

	for i, col := range t.layout.columns {
		mode := '|'
		if i < len(route) {
			mode = route[i]
		}
		value := ""
		if i < len(values) {
			value = values[i]
		}

		leading, trailing := col.Leading, col.Trailing
		if mode != '|' {
			leading, trailing = blank(leading), blank(trailing)
		}
		width := col.ContentWidth()
		content := cell(value, width, col.Align)
		if mode == '>' {
			content = strings.Repeat(">", width)
		}

		if leading != 0 {
			t.out.WriteRune(leading)
		}
		t.out.WriteString(content)
		if trailing != 0 {
			t.out.WriteRune(trailing)
		}
	}
	t.out.WriteByte('\n')
	return t
}

func blank(border rune) rune {
	if border == 0 {
		return 0
	}
	return ' '
}

// cell truncates value to width runes and pads it per align.
func cell(value string, width int, align Align) string {
	if n := utf8.RuneCountInString(value); n > width {
		value = string([]rune(value)[:width])
	}
	pad := strings.Repeat(" ", width-utf8.RuneCountInString(value))
	if align == AlignRight {
		return pad + value
	}
	return value + pad
}
