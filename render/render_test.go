package render

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/marquee/engine"
	"github.com/spektr-org/marquee/helpers"
)

const moviesCSV = `Film,Genre,CriticRating,AudienceRating,BudgetMillion,Year
Alpha,Comedy,87,81,8,2009
Bravo,Drama,45,60,105,2010
Charlie,Comedy,30,55,20,2011
Delta,Action,71,72,120,2008
Echo,Drama,92,88,40,2011
Foxtrot,Comedy,70,65,12,2010
Golf,Horror,15,40,5,2007
Hotel,Action,100,90,200,2009
India,Drama,69,77,30,2008
Juliet,Comedy,55,48,16,2011
Kilo,Action,62,70,150,2010
Lima,Drama,81,79,25,2009
`

func movieView(t *testing.T) engine.RecordView {
	t.Helper()
	view, _, err := helpers.ParseCSVView(strings.NewReader(moviesCSV))
	require.NoError(t, err)
	return view
}

func TestPNGEveryMode(t *testing.T) {
	view := movieView(t)
	for _, mode := range engine.PlotModes() {
		t.Run(mode.Key(), func(t *testing.T) {
			c, err := engine.Render(mode, view, engine.WithKDEGridSize(24))
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, PNG(&buf, c, WithSize(480, 360)))

			img, err := png.Decode(&buf)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, img.Bounds().Dx(), 480)
			assert.GreaterOrEqual(t, img.Bounds().Dy(), 360)
		})
	}
}

func TestPNGHeatmapAndPairplot(t *testing.T) {
	view := movieView(t)

	img, err := Image(engine.BuildHeatmap(view, "CriticRating", "AudienceRating", "BudgetMillion"))
	require.NoError(t, err)
	assert.Equal(t, 640, img.Bounds().Dx())

	pair := engine.BuildPairplot(view, engine.WithKDEGridSize(24))
	img, err = Image(pair, WithSize(320, 240))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, img.Bounds().Dx(), legendWidth+3*minPanelSide, "grows to fit a 3×3 grid")
	assert.GreaterOrEqual(t, img.Bounds().Dy(), titleHeight+3*minPanelSide)
}

func TestImageEmptyView(t *testing.T) {
	view := movieView(t)
	spec := engine.DefaultFilterSpec(view, "Genre")
	spec.Categories["Genre"] = []string{}
	empty := engine.ApplyFilters(view, spec)

	c, err := engine.Render(engine.ModeJointKDE, empty)
	require.NoError(t, err)
	img, err := Image(c)
	require.NoError(t, err)
	assert.Equal(t, 640, img.Bounds().Dx())

	_, err = Image(nil)
	assert.Error(t, err)
}

func TestSplits(t *testing.T) {
	assert.Equal(t, []int{0, 100, 200, 300}, splits(300, 3, false, false))
	assert.Equal(t, []int{0, 500, 600}, splits(600, 2, true, false))
	assert.Equal(t, []int{0, 100, 600}, splits(600, 2, true, true))
}

func TestColormap(t *testing.T) {
	assert.Equal(t, coolwarm[0], coolwarm.At(-3))
	assert.Equal(t, coolwarm[len(coolwarm)-1], coolwarm.At(2))
	mid := coolwarm.At(0.5)
	assert.Equal(t, coolwarm[4], mid, "nine stops put 0.5 on the neutral stop")

	assert.Equal(t, accent, hexColor("bogus"))
	c := hexColor("#C44E52")
	assert.Equal(t, uint8(0xC4), c.R)
	assert.Equal(t, uint8(0x4E), c.G)
	assert.Equal(t, uint8(0x52), c.B)
}

func TestLevelIndex(t *testing.T) {
	levels := []float64{0.1, 0.2, 0.4}
	assert.Equal(t, 0, levelIndex(levels, 0.05))
	assert.Equal(t, 1, levelIndex(levels, 0.1))
	assert.Equal(t, 2, levelIndex(levels, 0.3))
	assert.Equal(t, 3, levelIndex(levels, 9))
}

func TestContourSegments(t *testing.T) {
	// A single peak in the middle of a 3×3 grid.
	g := &engine.DensityGrid{
		X: []float64{0, 1, 2},
		Y: []float64{0, 1, 2},
		Z: [][]float64{
			{0, 0, 0},
			{0, 1, 0},
			{0, 0, 0},
		},
	}
	segs := contourSegments(g, 0.5)
	require.Len(t, segs, 4, "one segment per cell around the peak")
	for _, s := range segs {
		for _, p := range s {
			assert.InDelta(t, 1, p.X, 0.5+1e-9)
			assert.InDelta(t, 1, p.Y, 0.5+1e-9)
		}
	}
	assert.Empty(t, contourSegments(g, 2))
}
