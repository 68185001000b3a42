package InputParameters

import (
	"fmt"
	"math"

	"github.com/ghodss/yaml"
	"github.com/notargets/heatflux/types"
	"github.com/pkg/errors"
)

// Parameters obtained from the YAML input file
type InputParametersHeat struct {
	Title                string  `json:"Title"`
	Thickness            float64 `json:"Thickness"`          // m
	Nodes                int     `json:"Nodes"`              // finite difference nodes across the slab
	Conductivity         float64 `json:"Conductivity"`       // W/(m K)
	Capacity             float64 `json:"Capacity"`           // volumetric heat capacity, J/(m^3 K)
	H                    float64 `json:"H"`                  // far face transfer coefficient, W/(m^2 K)
	SensorPosition       float64 `json:"SensorPosition"`     // depth of the sensor below the excited face, m
	InitialTemperature   float64 `json:"InitialTemperature"` // uniform, relative to ambient
	Modes                int     `json:"Modes"`              // basis anchors spread over the observation window
	Workers              int     `json:"Workers"`
	CacheResponses       bool    `json:"CacheResponses"`
	MaxEvaluations       int     `json:"MaxEvaluations"`
	Scheme               string  `json:"Scheme"`   // implicit or green
	TimeStep             float64 `json:"TimeStep"` // implicit solver step, s
	MaxSteps             int     `json:"MaxSteps"`
	FinalTime            float64 `json:"FinalTime"`      // forward simulations only
	OutputInterval       float64 `json:"OutputInterval"` // forward simulations only
	Flux                 float64 `json:"Flux"`           // constant flux when no history is given, W/m^2
	ReconstructionPoints int     `json:"ReconstructionPoints"`
	NoiseSigma           float64 `json:"NoiseSigma"` // K
	Seed                 uint64  `json:"Seed"`
	TimeColumn           string  `json:"TimeColumn"`
	FluxColumn           string  `json:"FluxColumn"`
	TemperatureColumn    string  `json:"TemperatureColumn"`
}

// NewInputParametersHeat returns the benchmark configuration: a 5 cm slab
// with an adiabatic far face and the sensor at mid depth.
func NewInputParametersHeat() *InputParametersHeat {
	return &InputParametersHeat{
		Title:                "Slab heat flux reconstruction",
		Thickness:            0.05,
		Nodes:                21,
		Conductivity:         0.3,
		Capacity:             1.2e6,
		SensorPosition:       0.025,
		Modes:                20,
		Workers:              4,
		CacheResponses:       true,
		MaxEvaluations:       1000000,
		Scheme:               "implicit",
		TimeStep:             10,
		MaxSteps:             1000000,
		FinalTime:            8000,
		OutputInterval:       60,
		Flux:                 1500,
		ReconstructionPoints: 500,
		NoiseSigma:           0.2,
		Seed:                 1,
		TimeColumn:           "t (s)",
		FluxColumn:           "U (W/m2)",
		TemperatureColumn:    "T(e/2)",
	}
}

// Parse overlays data onto the receiver, so unspecified keys keep their
// current values.
func (ip *InputParametersHeat) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, ip); err != nil {
		return errors.Wrap(types.ErrConfiguration, err.Error())
	}
	return ip.Validate()
}

func (ip *InputParametersHeat) Validate() error {
	positive := func(name string, v float64) error {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return errors.Wrapf(types.ErrConfiguration, "%s must be positive, got %v", name, v)
		}
		return nil
	}
	for _, p := range []struct {
		name string
		v    float64
	}{
		{"Thickness", ip.Thickness},
		{"Conductivity", ip.Conductivity},
		{"Capacity", ip.Capacity},
		{"TimeStep", ip.TimeStep},
	} {
		if err := positive(p.name, p.v); err != nil {
			return err
		}
	}
	switch {
	case ip.Nodes < 2:
		return errors.Wrapf(types.ErrConfiguration, "Nodes must be at least 2, got %d", ip.Nodes)
	case ip.H < 0 || math.IsNaN(ip.H):
		return errors.Wrapf(types.ErrConfiguration, "H must be non-negative, got %v", ip.H)
	case ip.SensorPosition < 0 || ip.SensorPosition > ip.Thickness || math.IsNaN(ip.SensorPosition):
		return errors.Wrapf(types.ErrConfiguration, "SensorPosition %v outside [0, %v]", ip.SensorPosition, ip.Thickness)
	case ip.Modes < 2:
		return errors.Wrapf(types.ErrConfiguration, "Modes must be at least 2, got %d", ip.Modes)
	case ip.NoiseSigma < 0:
		return errors.Wrapf(types.ErrConfiguration, "NoiseSigma must be non-negative, got %v", ip.NoiseSigma)
	case ip.ReconstructionPoints < 2:
		return errors.Wrapf(types.ErrConfiguration, "ReconstructionPoints must be at least 2, got %d", ip.ReconstructionPoints)
	}
	if _, err := types.NewScheme(ip.Scheme); err != nil {
		return err
	}
	return nil
}

func (ip *InputParametersHeat) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("%8.5f\t\t= Thickness (m)\n", ip.Thickness)
	fmt.Printf("[%d]\t\t\t\t= Nodes\n", ip.Nodes)
	fmt.Printf("%8.5f\t\t= Conductivity (W/m/K)\n", ip.Conductivity)
	fmt.Printf("%8.5g\t\t= Capacity (J/m3/K)\n", ip.Capacity)
	fmt.Printf("%8.5f\t\t= H (W/m2/K)\n", ip.H)
	fmt.Printf("%8.5f\t\t= Sensor Position (m)\n", ip.SensorPosition)
	fmt.Printf("[%d]\t\t\t\t= Modes\n", ip.Modes)
	fmt.Printf("[%s]\t\t\t= Scheme\n", ip.Scheme)
	fmt.Printf("%8.5f\t\t= Time Step (s)\n", ip.TimeStep)
}
