package riskscore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWeightsValid(t *testing.T) {
	require.NoError(t, DefaultWeights().Validate())
}

func TestWeightsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Weights)
		wantErr string
	}{
		{"negative weight", func(w *Weights) { w.Capacity = -0.1 }, "must be >= 0"},
		{"sum too low", func(w *Weights) { w.Tolerance = 0.1 }, "sum to 1"},
		{"sum too high", func(w *Weights) { w.Knowledge = 0.5 }, "sum to 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := DefaultWeights()
			tt.mutate(&w)
			err := w.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWeightsValidateStableMessage(t *testing.T) {
	w := DefaultWeights()
	w.Tolerance = -0.1
	w.Knowledge = -0.2

	first := w.Validate().Error()
	assert.Contains(t, first, "tolerance must be >= 0; knowledge must be >= 0")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, w.Validate().Error())
	}
}

func TestLoadWeights(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
tolerance: 0.40
capacity: 0.20
time_horizon: 0.15
stability: 0.15
knowledge: 0.10
leverage_penalty: 0.05
`), 0o644))

	w, err := LoadWeights(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.40, w.Tolerance, 0.001)
	assert.InDelta(t, 0.15, w.TimeHorizon, 0.001)
}

func TestLoadWeightsPartialOverride(t *testing.T) {
	// Omitted keys keep their defaults; the file below only shifts weight from
	// tolerance to capacity.
	path := filepath.Join(t.TempDir(), "weights.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tolerance: 0.20\ncapacity: 0.30\n"), 0o644))

	w, err := LoadWeights(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.20, w.Tolerance, 0.001)
	assert.InDelta(t, 0.30, w.Capacity, 0.001)
	assert.InDelta(t, 0.20, w.TimeHorizon, 0.001)
}

func TestLoadWeightsErrors(t *testing.T) {
	_, err := LoadWeights(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("tolerance: [not a number"), 0o644))
	_, err = LoadWeights(bad)
	require.Error(t, err)

	invalid := filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("tolerance: 0.9\n"), 0o644))
	_, err = LoadWeights(invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sum to 1")
}
