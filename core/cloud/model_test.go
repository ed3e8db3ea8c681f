package cloud

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testModel(t *testing.T) *Model {
	t.Helper()
	cfg, err := ConfigBuilder{
		EFDColumns:    []string{"cloud"},
		EFDDeltaTime:  30,
		TargetColumns: []string{"altitude", "azimuth"},
		ModelKeys:     []string{"cloud"},
	}.Build()
	require.NoError(t, err)
	m, err := NewModel(cfg)
	require.NoError(t, err)
	return m
}

func TestNewModelRejectsUnbuiltConfig(t *testing.T) {
	_, err := NewModel(Config{})
	assert.ErrorIs(t, err, ErrConfigType)
}

func TestEFDRequirements(t *testing.T) {
	m := testModel(t)
	cols, dt := m.EFDRequirements()
	assert.Equal(t, []string{"cloud"}, cols)
	assert.Equal(t, 30.0, dt)
	assert.Equal(t, []string{"altitude", "azimuth"}, m.MapRequirements())
}

func TestComputeMapBroadcasts(t *testing.T) {
	m := testModel(t)
	alt := make([]float64, 50)
	out, err := m.ComputeMap(map[string]float64{"cloud": 1.53}, map[string][]float64{"altitude": alt, "azimuth": alt})
	require.NoError(t, err)
	cloud, ok := out["cloud"]
	require.True(t, ok)
	require.Len(t, cloud, len(alt))
	for _, v := range cloud {
		assert.Equal(t, 1.53, v)
	}

	_, err = m.ComputeMap(map[string]float64{}, map[string][]float64{"altitude": alt})
	assert.Error(t, err)
	_, err = m.ComputeMap(map[string]float64{"cloud": 1}, map[string][]float64{"azimuth": alt})
	assert.Error(t, err)
}

func TestCompute(t *testing.T) {
	m := testModel(t)
	out := m.Compute(0.25, make([]float64, 3))
	assert.Equal(t, []float64{0.25, 0.25, 0.25}, out["cloud"])
	assert.Empty(t, m.Compute(0.25, nil)["cloud"])
	assert.Empty(t, Broadcast(1, -1))
}

func TestStatus(t *testing.T) {
	m := testModel(t)
	st := m.Status()
	assert.Equal(t, []string{
		"CloudModel_version", "CloudModel_sha", "efd_columns", "efd_delta_time",
		"target_columns", "model_keys", "map_columns",
	}, st.Keys())
	v, ok := st.Get("efd_delta_time")
	require.True(t, ok)
	assert.Equal(t, 30.0, v)

	b, err := json.Marshal(st)
	require.NoError(t, err)
	assert.JSONEq(t, `{"CloudModel_version":"dev","CloudModel_sha":"unknown","efd_columns":["cloud"],
		"efd_delta_time":30,"target_columns":["altitude","azimuth"],"model_keys":["cloud"],
		"map_columns":["altitude","azimuth"]}`, string(b))
	assert.Regexp(t, `^\{"CloudModel_version"`, string(b))
}
