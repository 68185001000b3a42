package types

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

type Scheme uint8

const (
	Scheme_Implicit Scheme = iota
	Scheme_Green
)

var SchemeNameMap = map[string]Scheme{
	"implicit":      Scheme_Implicit,
	"backwardeuler": Scheme_Implicit,
	"euler":         Scheme_Implicit,
	"green":         Scheme_Green,
	"exact":         Scheme_Green,
	"expm":          Scheme_Green,
}

var schemeNames = []string{
	"Implicit (backward Euler)",
	"Green's function (matrix exponential)",
}

func (s Scheme) String() string {
	if int(s) < len(schemeNames) {
		return schemeNames[s]
	}
	return fmt.Sprintf("Scheme(%d)", s)
}

func NewScheme(label string) (s Scheme, err error) {
	var (
		ok bool
	)
	if len(label) == 0 {
		return Scheme_Implicit, nil
	}
	if s, ok = SchemeNameMap[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = errors.Wrapf(ErrConfiguration, "unknown propagation scheme %q", label)
	}
	return
}
