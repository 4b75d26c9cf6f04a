package engine

import (
	"fmt"
	"strings"
)

// ============================================================================
// PLOT MODES — closed set of chart routines
// ============================================================================
// The user-facing label ("Jointplot – Hex") is decoupled from the dispatch
// key ("joint-hex"). Jointplot variants share one routine; the variant is an
// explicit JointKind field, never parsed out of the label.
// ============================================================================

// PlotKind selects a chart routine.
type PlotKind string

const (
	PlotLM           PlotKind = "lm"
	PlotKDE          PlotKind = "kde"
	PlotHistogram    PlotKind = "hist"
	PlotJoint        PlotKind = "joint"
	PlotDistribution PlotKind = "dist"
)

// JointKind is the bivariate style of a joint plot.
type JointKind string

const (
	JointHex     JointKind = "hex"
	JointReg     JointKind = "reg"
	JointResid   JointKind = "resid"
	JointKDE     JointKind = "kde"
	JointScatter JointKind = "scatter"
)

// PlotMode is one of the nine dashboard chart modes.
// Joint is set only when Kind is PlotJoint. Encodes as its Key.
type PlotMode struct {
	Kind  PlotKind
	Joint JointKind
}

var (
	ModeLM           = PlotMode{Kind: PlotLM}
	ModeKDE          = PlotMode{Kind: PlotKDE}
	ModeHistogram    = PlotMode{Kind: PlotHistogram}
	ModeJointHex     = PlotMode{Kind: PlotJoint, Joint: JointHex}
	ModeJointReg     = PlotMode{Kind: PlotJoint, Joint: JointReg}
	ModeJointResid   = PlotMode{Kind: PlotJoint, Joint: JointResid}
	ModeJointKDE     = PlotMode{Kind: PlotJoint, Joint: JointKDE}
	ModeJointScatter = PlotMode{Kind: PlotJoint, Joint: JointScatter}
	ModeDistribution = PlotMode{Kind: PlotDistribution}
)

// PlotModes returns every mode in menu order.
func PlotModes() []PlotMode {
	return []PlotMode{
		ModeLM,
		ModeKDE,
		ModeHistogram,
		ModeJointHex,
		ModeJointReg,
		ModeJointResid,
		ModeJointKDE,
		ModeJointScatter,
		ModeDistribution,
	}
}

var kindLabels = map[PlotKind]string{
	PlotLM:           "LM Plot",
	PlotKDE:          "KDE Plot",
	PlotHistogram:    "Hist Plot",
	PlotDistribution: "Distplot",
}

var jointLabels = map[JointKind]string{
	JointHex:     "Hex",
	JointReg:     "Reg",
	JointResid:   "Resid",
	JointKDE:     "KDE",
	JointScatter: "Scatter",
}

// Valid reports whether m is one of PlotModes().
func (m PlotMode) Valid() bool {
	if m.Kind == PlotJoint {
		_, ok := jointLabels[m.Joint]
		return ok
	}
	_, ok := kindLabels[m.Kind]
	return ok && m.Joint == ""
}

// Key returns the stable dispatch key: "lm", "kde", "hist", "joint-hex", …
func (m PlotMode) Key() string {
	if m.Kind == PlotJoint {
		return string(m.Kind) + "-" + string(m.Joint)
	}
	return string(m.Kind)
}

// Label returns the menu label: "LM Plot", "Jointplot – Hex", …
func (m PlotMode) Label() string {
	if m.Kind == PlotJoint {
		if l, ok := jointLabels[m.Joint]; ok {
			return "Jointplot – " + l
		}
	}
	if l, ok := kindLabels[m.Kind]; ok && m.Joint == "" {
		return l
	}
	return m.Key()
}

func (m PlotMode) String() string { return m.Key() }

// MarshalText encodes the mode as its key.
func (m PlotMode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlotMode, m.Key())
	}
	return []byte(m.Key()), nil
}

// UnmarshalText accepts a key or a label.
func (m *PlotMode) UnmarshalText(text []byte) error {
	parsed, err := ParsePlotMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParsePlotMode accepts a dispatch key ("joint-hex") or a menu label
// ("Jointplot – Hex"). Matching is case-insensitive; the label dash may be
// an en dash or a hyphen.
func ParsePlotMode(s string) (PlotMode, error) {
	norm := normalizeModeName(s)
	for _, m := range PlotModes() {
		if norm == m.Key() || norm == normalizeModeName(m.Label()) {
			return m, nil
		}
	}
	return PlotMode{}, fmt.Errorf("%w: %q", ErrUnknownPlotMode, s)
}

func normalizeModeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "–", "-")
	return strings.Join(strings.Fields(s), " ")
}
