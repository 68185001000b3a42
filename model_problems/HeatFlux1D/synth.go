package HeatFlux1D

import (
	"math/rand/v2"

	"github.com/notargets/heatflux/propagator"
	"github.com/notargets/heatflux/readfiles"
	"gonum.org/v1/gonum/stat/distuv"
)

// Synthesize produces the benchmark table of a known flux history: time,
// flux and noise free sensor temperature, using the configured scheme.
func (hf *HeatFlux) Synthesize(times []float64, u propagator.Input) (tbl *readfiles.Table, err error) {
	var (
		y []float64
	)
	if y, err = hf.Propagator().Trace(hf.Sys, hf.Sensor, hf.InitialState(), times, u); err != nil {
		return
	}
	return readfiles.NewTable(
		[]string{hf.IP.TimeColumn, hf.IP.FluxColumn, hf.IP.TemperatureColumn},
		append([]float64(nil), times...), propagator.Sample(u, times), y)
}

// AddNoise returns y plus independent Gaussian noise of standard deviation
// sigma, reproducible for a given seed.
func AddNoise(y []float64, sigma float64, seed uint64) (noisy []float64) {
	noisy = append([]float64(nil), y...)
	if sigma == 0 {
		return
	}
	dist := distuv.Normal{
		Mu:    0,
		Sigma: sigma,
		Src:   rand.NewPCG(seed, seed^0x9e3779b97f4a7c15),
	}
	for i := range noisy {
		noisy[i] += dist.Rand()
	}
	return
}
