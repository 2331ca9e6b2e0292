package style

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// NewDefaultTableStyle returns the rounded, colored style used for terminal
// reports.
func NewDefaultTableStyle() *table.Style {
	style := table.Style{
		Name:    "StyleRounded",
		Box:     table.StyleBoxRounded,
		Format:  table.FormatOptionsDefault,
		HTML:    table.DefaultHTMLOptions,
		Options: table.OptionsDefault,
		Title:   table.TitleOptionsDefault,
		Color:   table.ColorOptionsDefault,
	}
	style.Color.Header = text.Colors{text.FgHiCyan, text.Bold}
	style.Color.RowAlternate = text.Colors{text.FgHiBlack}
	return &style
}

// NewPlainTableStyle returns an uncolored ASCII style, for --no-color and
// non-terminal output.
func NewPlainTableStyle() *table.Style {
	style := table.StyleDefault
	style.Format.Header = text.FormatLower
	return &style
}
