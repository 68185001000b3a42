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
	"os"

	"github.com/notargets/heatflux/model_problems/HeatFlux1D"
	"github.com/notargets/heatflux/propagator"
	"github.com/notargets/heatflux/readfiles"
	"github.com/spf13/cobra"
)

// simulateCmd represents the simulate command
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Forward simulation of the slab under a flux history",
	Long: `
Drives the slab with a constant flux (Flux in the input file) or with the
flux column of a table (--fluxFile) and reports sensor, surface and far face
temperatures every OutputInterval seconds up to FinalTime.

heatflux simulate -I run.yaml -F flux.txt`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			hf    *HeatFlux1D.HeatFlux
			u     propagator.Input
			times []float64
			tr    *propagator.Trajectory
			tbl   *readfiles.Table
		)
		if hf, err = newHeatFlux(cmd); err != nil {
			return
		}
		if u, err = fluxInput(cmd, hf); err != nil {
			return
		}
		if times, err = outputTimes(hf.IP.FinalTime, hf.IP.OutputInterval); err != nil {
			return
		}
		if tr, err = hf.Simulate(times, u); err != nil {
			return
		}
		if tbl, err = readfiles.NewTable(
			[]string{hf.IP.TimeColumn, hf.IP.FluxColumn, hf.IP.TemperatureColumn, "T(0)", "T(e)"},
			tr.Times, propagator.Sample(u, tr.Times), tr.Trace(hf.Sensor),
			tr.Node(0), tr.Node(hf.IP.Nodes-1)); err != nil {
			return
		}
		return emit(cmd, os.Stdout, tbl, 40)
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	addInputFlag(simulateCmd)
	simulateCmd.Flags().StringP("fluxFile", "F", "", "table holding the flux history, columns named by TimeColumn and FluxColumn")
}

func fluxInput(cmd *cobra.Command, hf *HeatFlux1D.HeatFlux) (u propagator.Input, err error) {
	var (
		file      string
		tbl       *readfiles.Table
		tc, fluxc []float64
	)
	if file, err = cmd.Flags().GetString("fluxFile"); err != nil {
		return
	}
	if len(file) == 0 {
		return propagator.Constant(hf.IP.Flux), nil
	}
	if tbl, err = readfiles.ReadTableFile(file, readfiles.TableOptions{}); err != nil {
		return
	}
	if tc, err = tbl.Column(hf.IP.TimeColumn); err != nil {
		return
	}
	if fluxc, err = tbl.Column(hf.IP.FluxColumn); err != nil {
		return
	}
	return propagator.NewHistory(tc, fluxc)
}
