package schema

import (
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// DISCOVERY TESTS
// ============================================================================

// Sample movie ratings export
var moviesCSV = `Film,Genre,CriticRating,AudienceRating,BudgetMillion,Year
Alpha,Comedy,87,81,8,2009
Bravo,Drama,45,60,105,2010
Charlie,Comedy,30,55,20,2011
Delta,Action,71,72,120.5,2008
Echo,Drama,92,88,40,2011
`

func discover(t *testing.T, csv string) *Config {
	t.Helper()
	df := dataframe.ReadCSV(strings.NewReader(csv))
	require.NoError(t, df.Err)
	cfg, err := DiscoverFromFrame(df, DiscoverOptions{Name: "movies", Source: "test"})
	require.NoError(t, err)
	return cfg
}

func TestDiscoverMoviesFrame(t *testing.T) {
	cfg := discover(t, moviesCSV)

	assert.Equal(t, "movies", cfg.Name)
	assert.Equal(t, "test", cfg.DiscoveredFrom)
	assert.Equal(t, 5, cfg.Rows)
	assert.Equal(t, []string{"Film", "Genre"}, cfg.DimensionKeys())
	assert.Equal(t, []string{"CriticRating", "AudienceRating", "BudgetMillion", "Year"}, cfg.MeasureKeys())

	genre := cfg.Dimension("Genre")
	require.NotNil(t, genre)
	assert.Equal(t, []string{"Comedy", "Drama", "Action"}, genre.Values)
	assert.Equal(t, "Genre", genre.DisplayName)

	budget := cfg.Measure("BudgetMillion")
	require.NotNil(t, budget)
	assert.Equal(t, "float", budget.Type)
	assert.Equal(t, 8.0, budget.Min)
	assert.Equal(t, 120.5, budget.Max)
	assert.Equal(t, "Budget Million", budget.DisplayName)

	assert.Equal(t, "int", cfg.Measure("Year").Type)
}

func TestRequire(t *testing.T) {
	cfg := discover(t, moviesCSV)

	assert.NoError(t, cfg.Require("Genre", "CriticRating"))

	err := cfg.Require("Genre", "Runtime", "Studio")
	require.ErrorIs(t, err, ErrMissingColumns)
	assert.Contains(t, err.Error(), "Runtime, Studio")

	assert.ErrorIs(t, cfg.RequireMeasures("Genre"), ErrNotNumeric)
	assert.ErrorIs(t, cfg.RequireMeasures("Runtime"), ErrMissingColumns)
	assert.NoError(t, cfg.RequireMeasures("Year"))
}

func TestSameShape(t *testing.T) {
	a := discover(t, moviesCSV)
	b := discover(t, moviesCSV+"Foxtrot,Horror,10,20,3,2007\n")
	assert.True(t, a.SameShape(*b), "new rows keep the shape")

	c := discover(t, "Film,Genre,CriticRating\nAlpha,Comedy,87\n")
	assert.False(t, a.SameShape(*c))
}

func TestDiscoverRejectsFailedFrame(t *testing.T) {
	df := dataframe.ReadCSV(strings.NewReader(""))
	_, err := DiscoverFromFrame(df)
	assert.Error(t, err)
}

func TestToDisplayName(t *testing.T) {
	tests := map[string]string{
		"CriticRating":   "Critic Rating",
		"budget_million": "Budget Million",
		"Year":           "Year",
		"Film":           "Film",
		"score2Total":    "Score2 Total",
	}
	for in, want := range tests {
		assert.Equal(t, want, toDisplayName(in), in)
	}
}
