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
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/notargets/heatflux/model_problems/HeatFlux1D"
	"github.com/notargets/heatflux/readfiles"
	"github.com/notargets/heatflux/types"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// invertCmd represents the invert command
var invertCmd = &cobra.Command{
	Use:   "invert",
	Short: "Reconstruct the surface heat flux from sensor readings",
	Long: `
Reads a table of sensor temperatures (columns named by TimeColumn and
TemperatureColumn), fits Modes-1 hat functions of the surface flux by linear
least squares and reports the reconstructed flux on ReconstructionPoints
evenly spaced times.

heatflux invert -I run.yaml -D benchmark.txt -o flux.txt`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			hf      *HeatFlux1D.HeatFlux
			file    string
			data    *readfiles.Table
			times   []float64
			y       []float64
			result  *HeatFlux1D.Result
			fluxTbl *readfiles.Table
		)
		if hf, err = newHeatFlux(cmd); err != nil {
			return
		}
		if file, err = dataFile(cmd); err != nil {
			return
		}
		if data, err = readfiles.ReadTableFile(file, readfiles.TableOptions{}); err != nil {
			return
		}
		if times, err = data.Column(hf.IP.TimeColumn); err != nil {
			return
		}
		if y, err = data.Column(hf.IP.TemperatureColumn); err != nil {
			return
		}
		if result, err = hf.Invert(times, y); err != nil {
			return
		}
		printCoefficients(result)
		if fluxTbl, err = readfiles.NewTable(
			[]string{hf.IP.TimeColumn, hf.IP.FluxColumn},
			result.Times, result.Flux); err != nil {
			return
		}
		return emit(cmd, os.Stdout, fluxTbl, 40)
	},
}

func init() {
	rootCmd.AddCommand(invertCmd)
	addInputFlag(invertCmd)
	invertCmd.Flags().StringP("dataFile", "D", "", "table of sensor temperatures")
}

func dataFile(cmd *cobra.Command) (file string, err error) {
	if file, err = cmd.Flags().GetString("dataFile"); err != nil {
		return
	}
	if len(file) == 0 {
		err = errors.Wrap(types.ErrConfiguration, "must supply a sensor data file (-D, --dataFile)")
	}
	return
}

func printCoefficients(r *HeatFlux1D.Result) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"mode", "anchor (s)", "flux (W/m2)"})
	for j, a := range r.Coefficients {
		tw.AppendRow(table.Row{j, fmt.Sprintf("%.1f", r.Signal.Expansion.Anchors[j]), fmt.Sprintf("%.4g", a)})
	}
	tw.AppendFooter(table.Row{"", "residual rms (K)", fmt.Sprintf("%.4g", r.Residuals.RMS)})
	tw.Render()
}
