package reader

import (
	"strings"

	"github.com/roach88/simcase/internal/value"
)

// Section is one top-level entry of a recorded document.
type Section struct {
	Key   string
	Value value.Value
}

// Document is a recorded run read back into memory, with the emission
// order of its sections preserved.
type Document struct {
	Sections []Section
}

// Get returns the section value for a key.
func (d *Document) Get(key string) (value.Value, bool) {
	for _, s := range d.Sections {
		if s.Key == key {
			return s.Value, true
		}
	}
	return nil, false
}

// Keys returns the section keys in emission order.
func (d *Document) Keys() []string {
	keys := make([]string, len(d.Sections))
	for i, s := range d.Sections {
		keys[i] = s.Key
	}
	return keys
}

// SimulationInfo returns the simulation_info section, if present and a
// mapping.
func (d *Document) SimulationInfo() (*value.Object, bool) {
	v, ok := d.Get("simulation_info")
	if !ok {
		return nil, false
	}
	obj, ok := v.(*value.Object)
	return obj, ok
}

// DriverInfos returns the driver_info_N sections in emission order.
func (d *Document) DriverInfos() []Section {
	return d.prefixed("driver_info_")
}

// Cases returns the iteration_case_N sections in emission order.
func (d *Document) Cases() []Section {
	return d.prefixed("iteration_case_")
}

func (d *Document) prefixed(prefix string) []Section {
	var out []Section
	for _, s := range d.Sections {
		if strings.HasPrefix(s.Key, prefix) {
			out = append(out, s)
		}
	}
	return out
}
