package engine

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// PLOT MODE TESTS
// ============================================================================

func TestParsePlotModeAcceptsLabelsAndKeys(t *testing.T) {
	tests := []struct {
		in   string
		want PlotMode
	}{
		{"LM Plot", ModeLM},
		{"lm", ModeLM},
		{"KDE Plot", ModeKDE},
		{"Hist Plot", ModeHistogram},
		{"Jointplot – Hex", ModeJointHex},
		{"jointplot - hex", ModeJointHex},
		{"joint-reg", ModeJointReg},
		{"Jointplot – Resid", ModeJointResid},
		{"Jointplot – KDE", ModeJointKDE},
		{"JOINT-SCATTER", ModeJointScatter},
		{"Distplot", ModeDistribution},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePlotMode(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJointplotHexLabelCarriesHexKind(t *testing.T) {
	mode, err := ParsePlotMode("Jointplot – Hex")
	require.NoError(t, err)
	assert.Equal(t, PlotJoint, mode.Kind)
	assert.Equal(t, JointHex, mode.Joint)
	assert.Equal(t, "joint-hex", mode.Key())
}

func TestParsePlotModeRejectsUnknown(t *testing.T) {
	for _, in := range []string{"", "Pie Chart", "joint", "Jointplot – Violin", "joint-"} {
		_, err := ParsePlotMode(in)
		assert.ErrorIs(t, err, ErrUnknownPlotMode, in)
	}
}

func TestPlotModesAreDistinctAndValid(t *testing.T) {
	modes := PlotModes()
	require.Len(t, modes, 9)

	keys := map[string]bool{}
	labels := map[string]bool{}
	for _, m := range modes {
		assert.True(t, m.Valid(), m.Key())
		assert.False(t, keys[m.Key()], "duplicate key %s", m.Key())
		assert.False(t, labels[m.Label()], "duplicate label %s", m.Label())
		keys[m.Key()] = true
		labels[m.Label()] = true
	}

	assert.False(t, PlotMode{Kind: PlotLM, Joint: JointHex}.Valid())
	assert.False(t, PlotMode{Kind: PlotJoint}.Valid())
}

func TestPlotModeJSONUsesKey(t *testing.T) {
	data, err := json.Marshal(struct {
		Mode PlotMode `json:"mode"`
	}{ModeJointKDE})
	require.NoError(t, err)
	assert.JSONEq(t, `{"mode":"joint-kde"}`, string(data))

	var back struct {
		Mode PlotMode `json:"mode"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"mode":"Jointplot – Resid"}`), &back))
	assert.Equal(t, ModeJointResid, back.Mode)
}
