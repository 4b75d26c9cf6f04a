package dashboard

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/marquee/config"
	"github.com/spektr-org/marquee/dataset"
	"github.com/spektr-org/marquee/engine"
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
`

type memSource string

func (s memSource) Open(context.Context) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(string(s))), nil
}

func (s memSource) Name() string { return "memory" }

func newService(t *testing.T) *Service {
	t.Helper()
	store := dataset.NewStore(memSource(moviesCSV), "Genre", "CriticRating", "AudienceRating")
	_, err := store.Load(context.Background())
	require.NoError(t, err)
	return NewServiceFromConfig(store, config.Default())
}

func TestHandleDefaultSelection(t *testing.T) {
	svc := newService(t)

	resp, err := svc.Handle(context.Background(), Selection{})
	require.NoError(t, err)

	assert.Equal(t, engine.ModeLM, resp.Mode)
	assert.Equal(t, 10, resp.Summary.Rows)
	assert.Equal(t, "Showing 10 of 10 rows across 4 of 4 Genre values.", resp.Summary.Message)

	require.NotNil(t, resp.Chart)
	assert.Equal(t, "lm", resp.Chart.Mode)
	require.NotNil(t, resp.Heatmap)
	assert.Len(t, resp.Heatmap.Panels[0].Matrix.Labels, 4)
	require.NotNil(t, resp.Overview)
	assert.Equal(t, 10, resp.Overview.Rows)
	assert.Nil(t, resp.Pairplot, "pairplot is opt-in")
}

func TestHandleFiltersByGenreAndRange(t *testing.T) {
	svc := newService(t)

	resp, err := svc.Handle(context.Background(), Selection{
		Genres: []string{"Comedy"},
		Ranges: map[string]engine.Range{"CriticRating": {Low: 70, High: 1000}},
		Mode:   engine.ModeJointHex,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Summary.Rows)
	assert.Equal(t, engine.Range{Low: 70, High: 100}, resp.Filters.Ranges["CriticRating"], "clamped to observed bounds")
	assert.Equal(t, []string{"Comedy"}, resp.Filters.Categories["Genre"])
	require.Len(t, resp.Filters.Ranges, 4, "every numeric column carries exactly one range")
	assert.Equal(t, engine.Range{Low: 40, High: 90}, resp.Filters.Ranges["AudienceRating"], "unselected column keeps its full range")
	assert.Equal(t, "joint-hex", resp.Chart.Mode)
	assert.Equal(t, 2, resp.Overview.Rows)
}

func TestHandleEmptyGenreSelection(t *testing.T) {
	svc := newService(t)

	resp, err := svc.Handle(context.Background(), Selection{Genres: []string{}})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.Summary.Rows)
	assert.Contains(t, resp.Summary.Message, "No records match")
	assert.Equal(t, engine.InsufficientData, resp.Chart.Notice)
	assert.Equal(t, engine.InsufficientData, resp.Heatmap.Notice)
	assert.Equal(t, engine.InsufficientData, resp.Overview.Notice)
}

func TestHandlePairplotOptIn(t *testing.T) {
	svc := newService(t)

	resp, err := svc.Handle(context.Background(), Selection{Pairplot: true})
	require.NoError(t, err)
	require.NotNil(t, resp.Pairplot)
	assert.Equal(t, 3, resp.Pairplot.Rows)
	assert.Len(t, resp.Pairplot.Panels, 9)

	resp, err = svc.Handle(context.Background(), Selection{Panels: []Panel{PanelPairplot}})
	require.NoError(t, err)
	assert.Nil(t, resp.Pairplot, "naming the panel does not opt in")
}

func TestHandlePanelSubset(t *testing.T) {
	svc := newService(t)

	resp, err := svc.Handle(context.Background(), Selection{Panels: []Panel{PanelHeatmap}})
	require.NoError(t, err)
	assert.NotNil(t, resp.Heatmap)
	assert.Nil(t, resp.Chart)
	assert.Nil(t, resp.Overview)
	assert.NotNil(t, resp.Summary)
}

func TestHandleRejectsBadInput(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Handle(ctx, Selection{Panels: []Panel{"sidebar"}})
	assert.ErrorIs(t, err, ErrUnknownPanel)

	_, err = svc.Handle(ctx, Selection{Mode: engine.PlotMode{Kind: engine.PlotJoint, Joint: "violin"}})
	assert.ErrorIs(t, err, engine.ErrUnknownPlotMode)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = svc.Handle(canceled, Selection{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHandleBeforeLoad(t *testing.T) {
	svc := NewService(dataset.NewStore(memSource(moviesCSV)), "Genre")
	_, err := svc.Handle(context.Background(), Selection{})
	assert.ErrorIs(t, err, dataset.ErrNotLoaded)

	_, err = svc.Controls()
	assert.ErrorIs(t, err, dataset.ErrNotLoaded)
}

func TestControls(t *testing.T) {
	svc := newService(t)

	c, err := svc.Controls()
	require.NoError(t, err)
	assert.Equal(t, "Genre", c.Category)
	assert.Equal(t, []string{"Comedy", "Drama", "Action", "Horror"}, c.Values)
	assert.Equal(t, engine.Range{Low: 15, High: 100}, c.Bounds["CriticRating"])
	assert.Equal(t, []string{"CriticRating", "AudienceRating", "BudgetMillion", "Year"}, c.Columns)
	require.Len(t, c.Modes, 9)
	assert.Equal(t, ModeOption{Key: "joint-hex", Label: "Jointplot – Hex"}, c.Modes[3])
	assert.Equal(t, "lm", c.DefaultMode)
	assert.Equal(t, 10, c.Rows)

	assert.Equal(t, "Filter by Genre:", c.CategoryLabel)
	require.Len(t, c.Sliders, 4)
	assert.Equal(t, Slider{Column: "CriticRating", Label: "Critic Rating Range:", Type: "int", Min: 15, Max: 100}, c.Sliders[0])
	assert.Equal(t, "Budget Million Range:", c.Sliders[2].Label)
	require.NotNil(t, c.Schema)
	assert.Equal(t, 10, c.Schema.Rows)
}

func TestControlsReportMissingCells(t *testing.T) {
	store := dataset.NewStore(memSource(moviesCSV + "Kilo,Drama,60,,10,2010\n"))
	_, err := store.Load(context.Background())
	require.NoError(t, err)
	svc := NewService(store, "Genre")

	c, err := svc.Controls()
	require.NoError(t, err)
	require.Len(t, c.Sliders, 4)
	aud := c.Sliders[1]
	assert.Equal(t, "AudienceRating", aud.Column)
	assert.Equal(t, 1, aud.Missing)
	assert.Equal(t, engine.Range{Low: 40, High: 90}, c.Bounds["AudienceRating"])
}

func TestReload(t *testing.T) {
	svc := newService(t)
	c, err := svc.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, c.Rows)
}

func TestParsePanel(t *testing.T) {
	p, err := ParsePanel("overview")
	require.NoError(t, err)
	assert.Equal(t, PanelOverview, p)

	_, err = ParsePanel("Overview")
	assert.ErrorIs(t, err, ErrUnknownPanel)
}
