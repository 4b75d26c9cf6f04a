package engine

// ============================================================================
// TEST FIXTURE — ten movies as a SliceView
// ============================================================================

type movie struct {
	Film     string
	Genre    string
	Critic   float64
	Audience float64
	Budget   float64
	Year     float64
}

var movieColumns = []string{"Film", "Genre", "CriticRating", "AudienceRating", "BudgetMillion", "Year"}

// Genres: Comedy ×4, Drama ×3, Action ×2, Horror ×1.
// CriticRating in [70, 100]: Alpha, Delta, Echo, Foxtrot, Hotel.
var movies = []movie{
	{"Alpha", "Comedy", 87, 81, 8, 2009},
	{"Bravo", "Drama", 45, 60, 105, 2010},
	{"Charlie", "Comedy", 30, 55, 20, 2011},
	{"Delta", "Action", 71, 72, 120, 2008},
	{"Echo", "Drama", 92, 88, 40, 2011},
	{"Foxtrot", "Comedy", 70, 65, 12, 2010},
	{"Golf", "Horror", 15, 40, 5, 2007},
	{"Hotel", "Action", 100, 90, 200, 2009},
	{"India", "Drama", 69, 77, 30, 2008},
	{"Juliet", "Comedy", 55, 48, 16, 2011},
}

func movieView() RecordView {
	return viewOf(movies)
}

func viewOf(ms []movie) RecordView {
	records := make([]Record, len(ms))
	for i, m := range ms {
		records[i] = Record{
			Dimensions: map[string]string{"Film": m.Film, "Genre": m.Genre},
			Measures: map[string]float64{
				"CriticRating":   m.Critic,
				"AudienceRating": m.Audience,
				"BudgetMillion":  m.Budget,
				"Year":           m.Year,
			},
		}
	}
	return NewSliceView(records, movieColumns...)
}

// emptyView keeps the fixture's columns but selects no genre.
func emptyView() RecordView {
	return ApplyFilters(movieView(), FilterSpec{Categories: map[string][]string{"Genre": {}}})
}

func films(view RecordView) []string {
	out := make([]string, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		out = append(out, view.Dimension(i, "Film"))
	}
	return out
}
