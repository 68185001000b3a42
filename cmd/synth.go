/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"math"
	"os"

	"github.com/notargets/heatflux/model_problems/HeatFlux1D"
	"github.com/notargets/heatflux/propagator"
	"github.com/notargets/heatflux/readfiles"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// synthCmd represents the synth command
var synthCmd = &cobra.Command{
	Use:   "synth",
	Short: "Generate a benchmark data set from a known flux",
	Long: `
Simulates the slab under the raised cosine flux
	U(t) = Flux/2 (1 - cos(2 pi t / FinalTime))
and writes time, flux and sensor temperature with Gaussian noise of
standard deviation NoiseSigma, ready for the invert command.

heatflux synth -I run.yaml -o benchmark.txt`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			hf    *HeatFlux1D.HeatFlux
			times []float64
			tbl   *readfiles.Table
			y     []float64
		)
		if hf, err = newHeatFlux(cmd); err != nil {
			return
		}
		if times, err = outputTimes(hf.IP.FinalTime, hf.IP.OutputInterval); err != nil {
			return
		}
		var (
			peak   = hf.IP.Flux
			period = hf.IP.FinalTime
		)
		u := propagator.Func(func(t float64) float64 {
			return 0.5 * peak * (1 - math.Cos(2*math.Pi*t/period))
		})
		if tbl, err = hf.Synthesize(times, u); err != nil {
			return
		}
		if clean, _ := cmd.Flags().GetBool("clean"); !clean {
			if y, err = tbl.Column(hf.IP.TemperatureColumn); err != nil {
				return
			}
			copy(y, HeatFlux1D.AddNoise(y, hf.IP.NoiseSigma, hf.IP.Seed))
			logrus.WithFields(logrus.Fields{
				"sigma": hf.IP.NoiseSigma,
				"seed":  hf.IP.Seed,
			}).Info("sensor noise added")
		}
		return emit(cmd, os.Stdout, tbl, 40)
	},
}

func init() {
	rootCmd.AddCommand(synthCmd)
	addInputFlag(synthCmd)
	synthCmd.Flags().Bool("clean", false, "do not add sensor noise")
}
