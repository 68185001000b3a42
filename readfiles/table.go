package readfiles

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/heatflux/types"
	"github.com/pkg/errors"
)

// Table is a set of equal length numeric columns with a header row, the
// layout used for flux and temperature time series.
type Table struct {
	Header  []string
	Columns [][]float64
}

type TableOptions struct {
	Delimiter rune // defaults to tab
}

func (o TableOptions) delimiter() rune {
	if o.Delimiter == 0 {
		return '\t'
	}
	return o.Delimiter
}

func NewTable(header []string, columns ...[]float64) (t *Table, err error) {
	if len(header) != len(columns) {
		err = errors.Wrapf(types.ErrSizeMismatch, "%d names for %d columns", len(header), len(columns))
		return
	}
	for i := 1; i < len(columns); i++ {
		if len(columns[i]) != len(columns[0]) {
			err = errors.Wrapf(types.ErrSizeMismatch, "column %q has %d rows, expected %d",
				header[i], len(columns[i]), len(columns[0]))
			return
		}
	}
	t = &Table{Header: header, Columns: columns}
	return
}

func (t *Table) Rows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0])
}

// Column returns the column titled name. Surrounding blanks are ignored.
func (t *Table) Column(name string) ([]float64, error) {
	name = strings.TrimSpace(name)
	for i, h := range t.Header {
		if strings.TrimSpace(h) == name {
			return t.Columns[i], nil
		}
	}
	return nil, errors.Wrapf(types.ErrConfiguration, "no column %q in %v", name, t.Header)
}

func ReadTableFile(path string, opts TableOptions) (t *Table, err error) {
	var (
		f *os.File
	)
	if f, err = os.Open(path); err != nil {
		return nil, errors.Wrapf(types.ErrConfiguration, "opening %s: %v", path, err)
	}
	defer f.Close()
	if t, err = ReadTable(bufio.NewReader(f), opts); err != nil {
		return nil, errors.WithMessage(err, path)
	}
	return
}

func ReadTable(r io.Reader, opts TableOptions) (t *Table, err error) {
	var (
		records [][]string
		cr      = csv.NewReader(r)
	)
	cr.Comma = opts.delimiter()
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	if records, err = cr.ReadAll(); err != nil {
		return nil, errors.Wrap(types.ErrConfiguration, err.Error())
	}
	if len(records) == 0 {
		return nil, errors.Wrap(types.ErrConfiguration, "empty table")
	}
	t = &Table{
		Header:  records[0],
		Columns: make([][]float64, len(records[0])),
	}
	for j := range t.Columns {
		t.Columns[j] = make([]float64, 0, len(records)-1)
	}
	for i, rec := range records[1:] {
		for j, field := range rec {
			var v float64
			if v, err = strconv.ParseFloat(strings.TrimSpace(field), 64); err != nil {
				return nil, errors.Wrapf(types.ErrConfiguration, "row %d column %q: %v", i+2, t.Header[j], err)
			}
			t.Columns[j] = append(t.Columns[j], v)
		}
	}
	return
}

func WriteTable(w io.Writer, t *Table, opts TableOptions) (err error) {
	var (
		cw  = csv.NewWriter(w)
		rec = make([]string, len(t.Header))
	)
	cw.Comma = opts.delimiter()
	if err = cw.Write(t.Header); err != nil {
		return
	}
	for i := 0; i < t.Rows(); i++ {
		for j := range rec {
			rec[j] = strconv.FormatFloat(t.Columns[j][i], 'g', -1, 64)
		}
		if err = cw.Write(rec); err != nil {
			return
		}
	}
	cw.Flush()
	return cw.Error()
}
