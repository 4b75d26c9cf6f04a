package main

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/spektr-org/marquee/dashboard"
	"github.com/spektr-org/marquee/engine"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	titleStyle  = lipgloss.NewStyle().Bold(true).MarginTop(1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	tableBorder = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

var (
	describeSel    selectionFlags
	describeFormat string
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Print the data overview: shape, first rows and summary statistics",
	Args:  cobra.NoArgs,
	RunE:  runDescribe,
}

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List the plot modes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		t := newTable("key", "label")
		for _, m := range engine.PlotModes() {
			t.Row(m.Key(), m.Label())
		}
		fmt.Fprintln(cmd.OutOrStdout(), t.String())
		return nil
	},
}

func init() {
	describeSel.register(describeCmd)
	describeCmd.Flags().StringVar(&describeFormat, "format", "table", "output format: table, json or csv")
}

func runDescribe(cmd *cobra.Command, _ []string) error {
	switch describeFormat {
	case "table", "json", "csv":
	default:
		return fmt.Errorf("unknown format %q", describeFormat)
	}
	sel, err := describeSel.selection(cmd)
	if err != nil {
		return err
	}
	sel.Panels = []dashboard.Panel{dashboard.PanelOverview}

	svc, err := loadService(cmd.Context())
	if err != nil {
		return err
	}
	resp, err := svc.Handle(cmd.Context(), sel)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch describeFormat {
	case "json":
		data, err := json.MarshalIndent(resp.Overview, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	case "csv":
		return writeTableCSV(out, resp.Overview.StatsTable)
	}
	printOverview(out, resp.Summary, resp.Overview)
	return nil
}

// writeTableCSV writes the summary statistics as a sheet-ready CSV.
func writeTableCSV(w io.Writer, td *engine.TableData) error {
	cw := csv.NewWriter(w)
	if td == nil {
		cw.Write([]string{"Result", "No data"})
		cw.Flush()
		return cw.Error()
	}
	headers := make([]string, len(td.Columns))
	for i, c := range td.Columns {
		headers[i] = c.Label
	}
	if len(headers) > 0 && headers[0] == "" {
		headers[0] = "stat"
	}
	cw.Write(headers)
	cw.WriteAll(td.Rows)
	return cw.Error()
}

func printOverview(w io.Writer, summary *engine.TextData, ov *engine.Overview) {
	fmt.Fprintln(w, mutedStyle.Render(summary.Message))
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Shape: %s rows × %d columns", engine.FormatInt(ov.Rows), ov.Columns)))

	fmt.Fprintln(w, titleStyle.Render("First rows"))
	fmt.Fprintln(w, renderTable(ov.Head))

	fmt.Fprintln(w, titleStyle.Render("Summary statistics"))
	fmt.Fprintln(w, renderTable(ov.StatsTable))
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tableBorder).
		Headers(headers...)
}

// renderTable draws td with numeric columns right-aligned.
func renderTable(td *engine.TableData) string {
	if td == nil {
		return ""
	}
	headers := make([]string, len(td.Columns))
	for i, c := range td.Columns {
		headers[i] = c.Label
	}
	t := newTable(headers...).
		Rows(td.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col < len(td.Columns) && td.Columns[col].Align == "right" {
				return numberStyle
			}
			return cellStyle
		})
	return t.String()
}
