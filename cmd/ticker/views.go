package main

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/rxtech-lab/argo-ticker/internal/filter"
	"github.com/rxtech-lab/argo-ticker/internal/types"
	"github.com/shopspring/decimal"
)

// tableHeaders are shared by the live table and the printed one.
var tableHeaders = []string{"Symbol", "Price", "Price Change (%)", "24h Volume"}

// NewFilterInputs creates one text input per filter field, in filter.Fields order.
func NewFilterInputs(criteria filter.Criteria) []textinput.Model {
	placeholders := map[filter.Field]string{
		filter.FieldNamePattern: "Name",
		filter.FieldMinPrice:    "Minimum Price",
		filter.FieldPriceChange: "Price Change",
	}

	values := map[filter.Field]string{
		filter.FieldNamePattern: criteria.NamePattern.TakeOr(""),
		filter.FieldMinPrice:    "",
		filter.FieldPriceChange: "",
	}

	if criteria.MinPrice.IsSome() {
		values[filter.FieldMinPrice] = criteria.MinPrice.Unwrap().String()
	}

	if criteria.PriceChangeThreshold.IsSome() {
		threshold := criteria.PriceChangeThreshold.Unwrap()
		values[filter.FieldPriceChange] = threshold.Value.String()

		if threshold.Below && !threshold.Value.IsNegative() {
			values[filter.FieldPriceChange] = "-" + threshold.Value.String()
		}
	}

	inputs := make([]textinput.Model, len(filter.Fields))
	for i, field := range filter.Fields {
		ti := textinput.New()
		ti.Placeholder = placeholders[field]
		ti.CharLimit = 32
		ti.Width = 16
		ti.Prompt = "> "
		ti.SetValue(values[field])
		inputs[i] = ti
	}

	return inputs
}

// NewTickerTable creates a new table for displaying ticker rows.
func NewTickerTable() table.Model {
	columns := []table.Column{
		{Title: tableHeaders[0], Width: 16},
		{Title: tableHeaders[1], Width: 20},
		{Title: tableHeaders[2], Width: 18},
		{Title: tableHeaders[3], Width: 34},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(false),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	t.SetStyles(s)

	return t
}

// RowCells formats displayed rows, marking price moves against prevPrices.
func RowCells(rows types.SnapshotSet, prevPrices map[string]decimal.Decimal) [][]string {
	cells := make([][]string, 0, len(rows))

	for _, t := range rows {
		cells = append(cells, []string{
			t.Symbol,
			FormatPrice(t.LastPrice, prevPrices[t.Symbol]),
			FormatChange(t.PriceChangePercent),
			FormatVolume(t.Volume),
		})
	}

	return cells
}

// UpdateTableRows replaces the table content with the displayed rows.
func UpdateTableRows(t table.Model, rows types.SnapshotSet, prevPrices map[string]decimal.Decimal) table.Model {
	cells := RowCells(rows, prevPrices)

	tableRows := make([]table.Row, len(cells))
	for i, c := range cells {
		tableRows[i] = table.Row(c)
	}

	t.SetRows(tableRows)

	if t.Cursor() >= len(tableRows) && len(tableRows) > 0 {
		t.SetCursor(len(tableRows) - 1)
	}

	return t
}

// RenderStaticTable renders rows as a bordered table for non-interactive output.
func RenderStaticTable(rows types.SnapshotSet) string {
	return lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(tableHeaders...).
		Rows(RowCells(rows, nil)...).
		String()
}
