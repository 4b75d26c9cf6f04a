package helpers

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/go-gota/gota/dataframe"

	"github.com/spektr-org/marquee/engine"
	"github.com/spektr-org/marquee/schema"
)

// ============================================================================
// CSV HELPER — Parses delimited text into []engine.Record
// ============================================================================
// The caller opens the data wherever it lives (file, embedded, HTTP body).
// This helper reads it into a typed data frame, discovers the schema from the
// inferred column types and converts every row into a generic Record.
// ============================================================================

// Cells read as missing values.
var nanValues = []string{"", "NA", "N/A", "NaN", "nan", "null", "<nil>"}

// ParseCSV reads delimited text and returns its records and discovered schema.
// Numeric columns become measures (missing or unparsable cells are left out of
// the record and read back as NaN); all other columns become dimensions.
func ParseCSV(r io.Reader, opts ...schema.DiscoverOptions) ([]engine.Record, *schema.Config, error) {
	df := dataframe.ReadCSV(r, dataframe.NaNValues(nanValues))
	if df.Err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", df.Err)
	}

	sch, err := schema.DiscoverFromFrame(df, opts...)
	if err != nil {
		return nil, nil, err
	}
	return FrameRecords(df, sch), sch, nil
}

// ParseCSVView parses delimited text straight into a RecordView whose column
// order follows the source header.
func ParseCSVView(r io.Reader, opts ...schema.DiscoverOptions) (engine.RecordView, *schema.Config, error) {
	records, sch, err := ParseCSV(r, opts...)
	if err != nil {
		return nil, nil, err
	}
	return engine.NewSliceView(records, sch.Columns...), sch, nil
}

// FrameRecords converts every frame row into a Record using sch for roles.
func FrameRecords(df dataframe.DataFrame, sch *schema.Config) []engine.Record {
	n := df.Nrow()
	records := make([]engine.Record, n)
	for i := range records {
		records[i] = engine.Record{
			Dimensions: make(map[string]string, len(sch.Dimensions)),
			Measures:   make(map[string]float64, len(sch.Measures)),
		}
	}

	for _, m := range sch.Measures {
		for i, v := range df.Col(m.Key).Float() {
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				records[i].Measures[m.Key] = v
			}
		}
	}
	for _, d := range sch.Dimensions {
		col := df.Col(d.Key)
		nan := col.IsNaN()
		for i, v := range col.Records() {
			if nan[i] {
				continue
			}
			records[i].Dimensions[d.Key] = strings.TrimSpace(v)
		}
	}
	return records
}
