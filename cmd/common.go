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
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/notargets/heatflux/InputParameters"
	"github.com/notargets/heatflux/model_problems/HeatFlux1D"
	"github.com/notargets/heatflux/readfiles"
	"github.com/notargets/heatflux/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const exampleInput = `
########################################
Title: "Slab heat flux reconstruction"
Thickness: 0.05
Nodes: 21
Conductivity: 0.3
Capacity: 1.2e6
H: 0
SensorPosition: 0.025
Modes: 20
Scheme: implicit
TimeStep: 10
FinalTime: 7980
OutputInterval: 60
Flux: 1500
NoiseSigma: 0.2
########################################
`

// loadParameters reads the run file named by --inputConditionsFile over
// the built in defaults.
func loadParameters(cmd *cobra.Command) (ip *InputParameters.InputParametersHeat, err error) {
	var (
		file string
		data []byte
	)
	ip = InputParameters.NewInputParametersHeat()
	if file, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
		return
	}
	if len(file) == 0 {
		logrus.Info("no input parameters file (-I, --inputConditionsFile), using defaults")
	} else {
		if data, err = os.ReadFile(file); err != nil {
			return nil, err
		}
		if err = ip.Parse(data); err != nil {
			fmt.Printf("example input parameters file:%s", exampleInput)
			return nil, err
		}
	}
	if w := viper.GetInt("workers"); w > 0 {
		ip.Workers = w
	}
	if err = ip.Validate(); err != nil {
		return nil, err
	}
	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		ip.Print()
	}
	return
}

func newHeatFlux(cmd *cobra.Command) (hf *HeatFlux1D.HeatFlux, err error) {
	var (
		ip *InputParameters.InputParametersHeat
	)
	if ip, err = loadParameters(cmd); err != nil {
		return
	}
	return HeatFlux1D.NewHeatFlux(ip, logrus.WithField("command", cmd.Name()))
}

func addInputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file of run parameters")
	cmd.Flags().StringP("output", "o", "", "write the result table to this file instead of the terminal")
}

// emit writes tbl as a delimited file when --output is set and renders it
// on w otherwise, showing at most maxRows evenly spaced rows.
func emit(cmd *cobra.Command, w io.Writer, tbl *readfiles.Table, maxRows int) (err error) {
	var (
		out string
		f   *os.File
	)
	if out, err = cmd.Flags().GetString("output"); err != nil {
		return
	}
	if len(out) != 0 {
		if f, err = os.Create(out); err != nil {
			return
		}
		defer f.Close()
		if err = readfiles.WriteTable(f, tbl, readfiles.TableOptions{}); err != nil {
			return
		}
		logrus.WithField("file", out).WithField("rows", tbl.Rows()).Info("table written")
		return
	}
	render(w, tbl, maxRows)
	return
}

func render(w io.Writer, tbl *readfiles.Table, maxRows int) {
	var (
		tw     = table.NewWriter()
		header = make(table.Row, len(tbl.Header))
		n      = tbl.Rows()
		stride = 1
	)
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	for j, h := range tbl.Header {
		header[j] = h
	}
	tw.AppendHeader(header)
	if maxRows > 0 && n > maxRows {
		stride = (n + maxRows - 1) / maxRows
	}
	for i := 0; i < n; i += stride {
		row := make(table.Row, len(tbl.Columns))
		for j := range tbl.Columns {
			row[j] = fmt.Sprintf("%.6g", tbl.Columns[j][i])
		}
		tw.AppendRow(row)
	}
	tw.Render()
}

// outputTimes is 0, dt, 2 dt, ... up to and including finalTime.
func outputTimes(finalTime, dt float64) (times []float64, err error) {
	if dt <= 0 || finalTime <= 0 {
		return nil, errors.Wrapf(types.ErrConfiguration, "FinalTime and OutputInterval must be positive, got %v and %v", finalTime, dt)
	}
	n := int(finalTime/dt + 1e-9)
	times = make([]float64, n+1)
	for i := range times {
		times[i] = float64(i) * dt
	}
	return
}
