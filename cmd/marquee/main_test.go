package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/marquee/engine"
)

// run executes the root command with data pointed at the bundled dataset.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("MARQUEE_DATA__PATH", "../../data/movies.csv")
	t.Setenv("MARQUEE_CONFIG", "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestModesCommand(t *testing.T) {
	out, err := run(t, "modes")
	require.NoError(t, err)
	assert.Contains(t, out, "joint-hex")
	assert.Contains(t, out, "Jointplot – Resid")
	assert.Contains(t, out, "Distplot")
}

func TestDescribeCommand(t *testing.T) {
	out, err := run(t, "describe", "--genre", "Comedy", "--format", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "Showing 172 of 559 rows")
	assert.Contains(t, out, "Summary statistics")
	assert.Contains(t, out, "CriticRating")
}

func TestDescribeCSV(t *testing.T) {
	out, err := run(t, "describe", "--genre", "Comedy", "--format", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "stat,")
	assert.Contains(t, out, "\ncount,172.000000")

	_, err = run(t, "describe", "--format", "xml")
	assert.Error(t, err)
}

func TestWriteTableCSV(t *testing.T) {
	var buf bytes.Buffer
	td := &engine.TableData{
		Columns: []engine.Column{{Key: "stat"}, {Key: "x", Label: "x"}},
		Rows:    [][]string{{"count", "3"}},
	}
	require.NoError(t, writeTableCSV(&buf, td))
	assert.Equal(t, "stat,x\ncount,3\n", buf.String())

	buf.Reset()
	require.NoError(t, writeTableCSV(&buf, nil))
	assert.Equal(t, "Result,No data\n", buf.String())
}

func TestRenderCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fig.png")
	_, err := run(t, "render", "--mode", "joint-hex", "--genre", "Comedy", "--range", "CriticRating:70:100", "--out", path)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 640, img.Bounds().Dx())
}

func TestSelectionFlags(t *testing.T) {
	var f selectionFlags
	cmd := &cobra.Command{Use: "x"}
	f.register(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--genre", "Comedy,Drama", "--range", "CriticRating:70:100"}))
	f.mode = "Jointplot – KDE"

	sel, err := f.selection(cmd)
	require.NoError(t, err)
	assert.Equal(t, []string{"Comedy", "Drama"}, sel.Genres)
	assert.Equal(t, engine.Range{Low: 70, High: 100}, sel.Ranges["CriticRating"])
	assert.Equal(t, engine.ModeJointKDE, sel.Mode)

	var none selectionFlags
	bare := &cobra.Command{Use: "y"}
	none.register(bare)
	sel, err = none.selection(bare)
	require.NoError(t, err)
	assert.Nil(t, sel.Genres, "unset flag selects every genre")

	none.ranges = []string{"CriticRating"}
	_, err = none.selection(bare)
	assert.Error(t, err)
}

func TestRenderTable(t *testing.T) {
	td := &engine.TableData{
		Columns: []engine.Column{{Key: "stat", Label: ""}, {Key: "x", Label: "x", Align: "right"}},
		Rows:    [][]string{{"count", "3"}, {"mean", "2.000000"}},
	}
	out := renderTable(td)
	assert.Contains(t, out, "count")
	assert.Contains(t, out, "2.000000")
	assert.Empty(t, renderTable(nil))
}
