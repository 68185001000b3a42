package main

import (
	"bufio"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"

	"github.com/notargets/heatflux/InputParameters"
	"github.com/notargets/heatflux/model_problems/HeatFlux1D"
	"github.com/notargets/heatflux/propagator"
	"github.com/pkg/errors"
)

var (
	csvFile string
	run     bool
)

// Measures the time step convergence of the implicit propagator against the
// Green's function trace of the same slab, or reports a study saved earlier.
func main() {
	csvFilePtr := flag.String("csvFile", csvFile, "file containing entries of a convergence study")
	runPtr := flag.Bool("run", false, "run the study on the default slab and write it to csvFile")
	flag.Parse()
	csvFile, run = *csvFilePtr, *runPtr
	if len(csvFile) == 0 {
		flag.Usage()
		os.Exit(1)
	}
	if run {
		cs, err := runStudy("implicit", []float64{160, 80, 40, 20, 10, 5})
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if err = writeCSV(csvFile, []*ConvergenceStudy{cs}); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	fmt.Printf("Input file: %v\n", csvFile)
	studies, err := readCSV(csvFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	titles := make([]string, 0, len(studies))
	for title := range studies {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	for _, title := range titles {
		cs := studies[title]
		fmt.Printf("Title = %s, Nodes = %d\n", cs.title, cs.nodes)
		order := cs.Order()
		for i := range cs.dt {
			fmt.Printf("%8.3g, %12.5g, %12.5g, %6.3f\n", cs.dt[i], cs.rms[i], cs.max[i], order[i])
		}
	}
}

type ConvergenceStudy struct {
	title    string
	nodes    int
	dt       []float64
	rms, max []float64
}

func NewConvergenceStudy(title string, nodes int) *ConvergenceStudy {
	return &ConvergenceStudy{
		title: title,
		nodes: nodes,
	}
}

func (cs *ConvergenceStudy) Add(dt, rms, max float64) {
	cs.dt = append(cs.dt, dt)
	cs.rms = append(cs.rms, rms)
	cs.max = append(cs.max, max)
}

// Order is the observed order of the RMS error between each entry and the
// one before it, NaN for the first entry.
func (cs *ConvergenceStudy) Order() (p []float64) {
	p = make([]float64, len(cs.dt))
	for i := range p {
		if i == 0 || cs.rms[i] <= 0 || cs.rms[i-1] <= 0 {
			p[i] = math.NaN()
			continue
		}
		p[i] = math.Log(cs.rms[i-1]/cs.rms[i]) / math.Log(cs.dt[i-1]/cs.dt[i])
	}
	return
}

func runStudy(title string, steps []float64) (cs *ConvergenceStudy, err error) {
	var (
		ip    = InputParameters.NewInputParametersHeat()
		hf    *HeatFlux1D.HeatFlux
		times = make([]float64, 0)
		ref   []float64
	)
	if hf, err = HeatFlux1D.NewHeatFlux(ip, nil); err != nil {
		return
	}
	for t := 0.; t <= ip.FinalTime+1e-9; t += ip.OutputInterval {
		times = append(times, t)
	}
	u := propagator.Constant(ip.Flux)
	if ref, err = (propagator.Green{}).Trace(hf.Sys, hf.Sensor, nil, times, u); err != nil {
		return
	}
	cs = NewConvergenceStudy(title, ip.Nodes)
	for _, dt := range steps {
		var y []float64
		if y, err = (propagator.Implicit{Dt: dt}).Trace(hf.Sys, hf.Sensor, nil, times, u); err != nil {
			return nil, errors.Wrapf(err, "time step %v", dt)
		}
		var sum, mx float64
		for i := range y {
			d := math.Abs(y[i] - ref[i])
			sum += d * d
			mx = math.Max(mx, d)
		}
		cs.Add(dt, math.Sqrt(sum/float64(len(y))), mx)
	}
	return
}

func writeCSV(file string, studies []*ConvergenceStudy) (err error) {
	var f *os.File
	if f, err = os.Create(file); err != nil {
		return
	}
	defer f.Close()
	w := csv.NewWriter(f)
	_ = w.Write([]string{"title", "nodes", "dt", "rms", "max"})
	for _, cs := range studies {
		for i := range cs.dt {
			_ = w.Write([]string{cs.title, strconv.Itoa(cs.nodes),
				strconv.FormatFloat(cs.dt[i], 'g', -1, 64),
				strconv.FormatFloat(cs.rms[i], 'g', -1, 64),
				strconv.FormatFloat(cs.max[i], 'g', -1, 64)})
		}
	}
	w.Flush()
	return w.Error()
}

func readCSV(csvFile string) (studies map[string]*ConvergenceStudy, err error) {
	var f *os.File
	if f, err = os.Open(csvFile); err != nil {
		return
	}
	defer f.Close()
	return parseCSV(bufio.NewReader(f))
}

func parseCSV(rd io.Reader) (studies map[string]*ConvergenceStudy, err error) {
	var (
		records      [][]string
		ok           bool
		cs           *ConvergenceStudy
		dt, rms, max float64
	)
	studies = make(map[string]*ConvergenceStudy)
	r := csv.NewReader(rd)
	if records, err = r.ReadAll(); err != nil {
		return
	}
	for i, rec := range records {
		if i == 0 {
			continue
		}
		if len(rec) < 5 {
			return nil, errors.Errorf("line %d: want 5 fields, got %d", i+1, len(rec))
		}
		title, ntxt := rec[0], rec[1]
		n, _ := strconv.Atoi(ntxt)
		combTitle := title + ntxt
		if cs, ok = studies[combTitle]; !ok {
			cs = NewConvergenceStudy(title, n)
			studies[combTitle] = cs
		}
		_, _ = fmt.Sscanf(rec[2], "%g", &dt)
		_, _ = fmt.Sscanf(rec[3], "%g", &rms)
		_, _ = fmt.Sscanf(rec[4], "%g", &max)
		cs.Add(dt, rms, max)
	}
	return
}
