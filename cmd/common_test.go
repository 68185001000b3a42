package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/notargets/heatflux/readfiles"
	"github.com/notargets/heatflux/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputTimes(t *testing.T) {
	times, err := outputTimes(7980, 60)
	require.NoError(t, err)
	assert.Len(t, times, 134)
	assert.Equal(t, 0., times[0])
	assert.InDelta(t, 7980, times[133], 1e-9)

	times, err = outputTimes(100, 30)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 30, 60, 90}, times)

	_, err = outputTimes(100, 0)
	assert.True(t, errors.Is(err, types.ErrConfiguration))
}

func TestDataFileRequired(t *testing.T) {
	_, err := dataFile(invertCmd)
	assert.True(t, errors.Is(err, types.ErrConfiguration))
	require.NoError(t, invertCmd.Flags().Set("dataFile", "sensor.txt"))
	defer func() { _ = invertCmd.Flags().Set("dataFile", "") }()
	file, err := dataFile(invertCmd)
	require.NoError(t, err)
	assert.Equal(t, "sensor.txt", file)
}

func TestRenderStride(t *testing.T) {
	col := make([]float64, 100)
	for i := range col {
		col[i] = float64(i)
	}
	tbl, err := readfiles.NewTable([]string{"t (s)"}, col)
	require.NoError(t, err)
	var buf bytes.Buffer
	render(&buf, tbl, 10)
	out := buf.String()
	assert.Contains(t, out, "t (s)")
	assert.Contains(t, out, " 90 ")
	assert.False(t, strings.Contains(out, " 91 "))
}

func TestEmitWritesFile(t *testing.T) {
	tbl, err := readfiles.NewTable([]string{"a", "b"}, []float64{1, 2}, []float64{3, 4})
	require.NoError(t, err)
	file := t.TempDir() + "/out.txt"
	require.NoError(t, simulateCmd.Flags().Set("output", file))
	defer func() { _ = simulateCmd.Flags().Set("output", "") }()
	require.NoError(t, emit(simulateCmd, nil, tbl, 0))
	back, err := readfiles.ReadTableFile(file, readfiles.TableOptions{})
	require.NoError(t, err)
	b, err := back.Column("b")
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 4}, b)
}
