package server

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spektr-org/marquee/dashboard"
	"github.com/spektr-org/marquee/engine"
)

// ParseSelection reads a sidebar selection from query parameters:
//
//	genre=Comedy&genre=Drama         selected categories (genre= alone selects none)
//	range=CriticRating:70:100        closed range, repeatable
//	mode=joint-hex                   plot mode key or label
//	pairplot=true                    opt in to the pairplot
//	panel=chart&panel=heatmap        restrict the response
func ParseSelection(q url.Values) (dashboard.Selection, error) {
	var sel dashboard.Selection

	if vals, ok := q["genre"]; ok {
		sel.Genres = []string{}
		for _, v := range vals {
			if v = strings.TrimSpace(v); v != "" {
				sel.Genres = append(sel.Genres, v)
			}
		}
	}

	for _, raw := range q["range"] {
		col, r, err := ParseRange(raw)
		if err != nil {
			return sel, err
		}
		if sel.Ranges == nil {
			sel.Ranges = make(map[string]engine.Range)
		}
		sel.Ranges[col] = r
	}

	if m := q.Get("mode"); m != "" {
		mode, err := engine.ParsePlotMode(m)
		if err != nil {
			return sel, err
		}
		sel.Mode = mode
	}

	if p := q.Get("pairplot"); p != "" {
		on, err := strconv.ParseBool(p)
		if err != nil {
			return sel, fmt.Errorf("%w: pairplot=%q", errBadRequest, p)
		}
		sel.Pairplot = on
	}

	for _, raw := range q["panel"] {
		p, err := dashboard.ParsePanel(raw)
		if err != nil {
			return sel, err
		}
		sel.Panels = append(sel.Panels, p)
	}
	return sel, nil
}

// ParseRange parses "Column:low:high".
func ParseRange(raw string) (string, engine.Range, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 3 || strings.TrimSpace(parts[0]) == "" {
		return "", engine.Range{}, fmt.Errorf("%w: range=%q, want Column:low:high", errBadRequest, raw)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return "", engine.Range{}, fmt.Errorf("%w: range=%q: %v", errBadRequest, raw, err)
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
	if err != nil {
		return "", engine.Range{}, fmt.Errorf("%w: range=%q: %v", errBadRequest, raw, err)
	}
	return strings.TrimSpace(parts[0]), engine.Range{Low: lo, High: hi}, nil
}
