// Package schema validates recorded case documents against a CUE schema
// of the document shape, plus the ordering rules CUE cannot express.
package schema

import (
	_ "embed"
	"fmt"
	"regexp"
	"strconv"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/roach88/simcase/internal/reader"
	"github.com/roach88/simcase/internal/value"
)

//go:embed document.cue
var schemaCUE string

var (
	driverKeyRE = regexp.MustCompile(`^driver_info_([0-9]+)$`)
	caseKeyRE   = regexp.MustCompile(`^iteration_case_([0-9]+)$`)
)

// Validate checks a document against the CUE schema and the emission
// order rules. Returns all problems found, not just the first.
func Validate(doc *reader.Document) []error {
	errs := checkOrder(doc)

	root := value.NewObject()
	for _, s := range doc.Sections {
		root.Set(s.Key, s.Value)
	}

	ctx := cuecontext.New()
	compiled := ctx.CompileString(schemaCUE)
	if err := compiled.Err(); err != nil {
		return append(errs, fmt.Errorf("compile schema: %w", err))
	}
	def := compiled.LookupPath(cue.ParsePath("#Document"))
	if err := def.Err(); err != nil {
		return append(errs, fmt.Errorf("lookup #Document: %w", err))
	}

	data := ctx.Encode(value.ToGo(root))
	if err := data.Err(); err != nil {
		return append(errs, fmt.Errorf("encode document: %w", err))
	}

	unified := def.Unify(data)
	if err := unified.Validate(cue.Final(), cue.Concrete(true)); err != nil {
		for _, e := range cueerrors.Errors(err) {
			errs = append(errs, fmt.Errorf("schema: %s", e.Error()))
		}
	}
	return errs
}

// checkOrder verifies the fixed emission order: simulation_info first,
// then driver_info_1..N, then iteration_case sections with ascending
// numbers (gaps allowed: a failed record consumes its counter value).
func checkOrder(doc *reader.Document) []error {
	var errs []error
	keys := doc.Keys()
	if len(keys) == 0 {
		return []error{fmt.Errorf("document has no sections")}
	}
	if keys[0] != "simulation_info" {
		errs = append(errs, fmt.Errorf("first section is %q, want simulation_info", keys[0]))
	}

	const (
		phaseDrivers = iota
		phaseCases
	)
	phase := phaseDrivers
	nextDriver := 1
	lastCase := 0
	for _, key := range keys[1:] {
		if m := driverKeyRE.FindStringSubmatch(key); m != nil {
			if phase != phaseDrivers {
				errs = append(errs, fmt.Errorf("section %q appears after iteration cases", key))
				continue
			}
			n, _ := strconv.Atoi(m[1])
			if n != nextDriver {
				errs = append(errs, fmt.Errorf("section %q out of order, want driver_info_%d", key, nextDriver))
			}
			nextDriver++
			continue
		}
		if m := caseKeyRE.FindStringSubmatch(key); m != nil {
			phase = phaseCases
			n, _ := strconv.Atoi(m[1])
			if n <= lastCase {
				errs = append(errs, fmt.Errorf("section %q not ascending after iteration_case_%d", key, lastCase))
			}
			lastCase = n
			continue
		}
		errs = append(errs, fmt.Errorf("unexpected section %q", key))
	}
	return errs
}
