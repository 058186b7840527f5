// Package stats summarises record columns: value ranges, flag rates and
// simple consistency checks used when vetting acquisition output.
package stats

import (
	"fmt"
	"math"

	"github.com/EQt/barnacleboy/pkg/merfish"
)

// Range summarises one component of a field over all records.
type Range struct {
	Field     string
	Component int
	Min       float64
	Max       float64
	Mean      float64
	N         int // values considered, NaNs excluded
	NaN       int
}

// Column returns one Range per component of c.
func Column(c *merfish.Column) []Range {
	out := make([]Range, c.Count())
	for j := range out {
		r := Range{Field: c.Name(), Component: j, Min: math.Inf(1), Max: math.Inf(-1)}
		var sum float64
		for i := 0; i < c.Len(); i++ {
			v := c.Float(i, j)
			if math.IsNaN(v) {
				r.NaN++
				continue
			}
			r.Min = min(r.Min, v)
			r.Max = max(r.Max, v)
			sum += v
			r.N++
		}
		if r.N > 0 {
			r.Mean = sum / float64(r.N)
		} else {
			r.Min, r.Max, r.Mean = math.NaN(), math.NaN(), math.NaN()
		}
		out[j] = r
	}
	return out
}

// Summarize computes ranges for the named fields, or every field when names
// is empty.
func Summarize(f *merfish.File, names []string) ([]Range, error) {
	if len(names) == 0 {
		for _, fd := range f.Layout().Fields() {
			names = append(names, fd.Name)
		}
	}
	var out []Range
	for _, name := range names {
		c, err := f.Field(name)
		if err != nil {
			return nil, err
		}
		out = append(out, Column(c)...)
	}
	return out, nil
}

// FlagRate returns the fraction of records whose first component is non-zero.
func FlagRate(c *merfish.Column) float64 {
	if c.Len() == 0 {
		return 0
	}
	n := 0
	for i := 0; i < c.Len(); i++ {
		if c.Float(i, 0) != 0 {
			n++
		}
	}
	return float64(n) / float64(c.Len())
}

// Violation describes the first out-of-bounds value of a column.
type Violation struct {
	Field     string
	Record    int
	Component int
	Value     float64
	Count     int // total number of violations
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%s: %d values out of bounds, first at record %d[%d] = %g",
		v.Field, v.Count, v.Record, v.Component, v.Value)
}

// CheckBounds verifies every value of c lies in [lo, hi]. NaN is out of
// bounds. It returns nil or a *Violation.
func CheckBounds(c *merfish.Column, lo, hi float64) error {
	var v *Violation
	for i := 0; i < c.Len(); i++ {
		for j := 0; j < c.Count(); j++ {
			x := c.Float(i, j)
			if x >= lo && x <= hi {
				continue
			}
			if v == nil {
				v = &Violation{Field: c.Name(), Record: i, Component: j, Value: x}
			}
			v.Count++
		}
	}
	if v == nil {
		return nil
	}
	return v
}

// Sorted reports whether the first component of c is non-decreasing, and
// otherwise the first record that breaks the order.
func Sorted(c *merfish.Column) (bool, int) {
	for i := 1; i < c.Len(); i++ {
		if c.Float(i, 0) < c.Float(i-1, 0) {
			return false, i
		}
	}
	return true, -1
}
