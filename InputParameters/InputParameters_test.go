package InputParameters

import (
	"testing"

	"github.com/notargets/heatflux/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	ip := NewInputParametersHeat()
	require.NoError(t, ip.Validate())
	data := []byte(`
Title: "Brick wall"
Thickness: 0.2
Nodes: 41
Conductivity: 0.8
H: 8
SensorPosition: 0.1
Scheme: green
TemperatureColumn: "T(x)"
`)
	require.NoError(t, ip.Parse(data))
	assert.Equal(t, "Brick wall", ip.Title)
	assert.Equal(t, 0.2, ip.Thickness)
	assert.Equal(t, 41, ip.Nodes)
	assert.Equal(t, 0.8, ip.Conductivity)
	assert.Equal(t, 8., ip.H)
	assert.Equal(t, "green", ip.Scheme)
	assert.Equal(t, "T(x)", ip.TemperatureColumn)
	// Untouched keys keep their defaults
	assert.Equal(t, 1.2e6, ip.Capacity)
	assert.Equal(t, 20, ip.Modes)
	assert.Equal(t, "t (s)", ip.TimeColumn)
}

func TestValidate(t *testing.T) {
	for _, doc := range []string{
		"Nodes: 1",
		"Thickness: 0",
		"Conductivity: -1",
		"H: -0.5",
		"SensorPosition: 0.06",
		"Modes: 1",
		"Scheme: rk4",
		"TimeStep: 0",
		"Nodes: [",
	} {
		ip := NewInputParametersHeat()
		err := ip.Parse([]byte(doc))
		assert.Truef(t, errors.Is(err, types.ErrConfiguration), "%q: %v", doc, err)
	}
}
