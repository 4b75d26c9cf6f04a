package helpers

import (
	"math"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/marquee/engine"
)

// ============================================================================
// CSV INGESTION TESTS
// ============================================================================

var smallCSV = `Film,Genre,CriticRating,AudienceRating,BudgetMillion,Year
Alpha, Comedy ,87,81,8,2009
Bravo,Drama,45,,105,2010
Charlie,Comedy,30,55,20.5,2011
`

func TestParseCSVClassifiesColumns(t *testing.T) {
	records, sch, err := ParseCSV(strings.NewReader(smallCSV))
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"Film", "Genre", "CriticRating", "AudienceRating", "BudgetMillion", "Year"}, sch.Columns)
	assert.Equal(t, []string{"Film", "Genre"}, sch.DimensionKeys())
	assert.Equal(t, []string{"CriticRating", "AudienceRating", "BudgetMillion", "Year"}, sch.MeasureKeys())

	assert.Equal(t, "Comedy", records[0].Dimensions["Genre"], "dimension values are trimmed")
	assert.Equal(t, 87.0, records[0].Measures["CriticRating"])
	assert.Equal(t, 20.5, records[2].Measures["BudgetMillion"])

	_, ok := records[1].Measures["AudienceRating"]
	assert.False(t, ok, "missing cell is left out")

	aud := sch.Measure("AudienceRating")
	require.NotNil(t, aud)
	assert.Equal(t, 1, aud.Missing)
	assert.Equal(t, 55.0, aud.Min)
	assert.Equal(t, 81.0, aud.Max)
	assert.Equal(t, "float", sch.Measure("BudgetMillion").Type)
}

func TestParseCSVViewReadsMissingAsNaN(t *testing.T) {
	view, _, err := ParseCSVView(strings.NewReader(smallCSV))
	require.NoError(t, err)

	assert.Equal(t, 3, view.Len())
	assert.True(t, math.IsNaN(view.Measure(1, "AudienceRating")))
	assert.Equal(t, "Drama", view.Dimension(1, "Genre"))
	assert.Equal(t, []string{"Film", "Genre", "CriticRating", "AudienceRating", "BudgetMillion", "Year"}, view.Columns())
}

func TestParseCSVRejectsGarbage(t *testing.T) {
	_, _, err := ParseCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestParseMoviesDataset(t *testing.T) {
	f, err := os.Open("../data/movies.csv")
	require.NoError(t, err)
	defer f.Close()

	view, sch, err := ParseCSVView(f)
	require.NoError(t, err)
	require.NoError(t, sch.RequireMeasures("CriticRating", "AudienceRating", "BudgetMillion", "Year"))

	assert.Equal(t, 559, view.Len())
	assert.Len(t, view.Columns(), 6)

	genre := sch.Dimension("Genre")
	require.NotNil(t, genre)
	assert.Equal(t, []string{"Drama", "Action", "Comedy", "Adventure", "Horror", "Thriller", "Romance"}, genre.Values)

	spec := engine.DefaultFilterSpec(view, "Genre")
	assert.Equal(t, 559, engine.ApplyFilters(view, spec).Len())

	spec.Categories["Genre"] = []string{"Comedy"}
	assert.Equal(t, 172, engine.ApplyFilters(view, spec).Len())

	spec = engine.DefaultFilterSpec(view, "Genre")
	spec.Ranges["CriticRating"] = engine.Range{Low: 70, High: 100}
	assert.Equal(t, 117, engine.ApplyFilters(view, spec).Len())
}
