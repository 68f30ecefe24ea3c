// Package coverage implements a functional-coverage engine: models made of
// coverage points with exact-value bins, cross points over those bins, and a
// sampling discipline that updates hit counters from a gating predicate and a
// set of source expressions.
//
// A Model is deliberately passive about where its values come from: every
// Point carries a Source closure, normally closed over a held transaction
// slot, so Sample takes no arguments and reads whatever the slot currently
// holds. Callers that share a slot between a writer and Sample must serialize
// the two; the Model itself performs no locking.
package coverage

import (
	"errors"
	"fmt"
	"strings"
)

// comboSep joins bin names into a cross combination key. Bin and point names
// must not contain it.
const comboSep = "/"

// Accounting selects how coverage of multiple model instances of the same
// shape is reported.
type Accounting string

const (
	// AccountingInstance reports every model instance on its own.
	AccountingInstance Accounting = "instance"
	// AccountingMerged marks instances of one shape for merging at report time.
	AccountingMerged Accounting = "merged"
)

// Bin is an exact-value membership test inside a coverage point. A sample
// value hits the bin when it equals one of Values. Weight defaults to 1 and
// only affects score aggregation, never counting.
type Bin struct {
	Name   string
	Values []uint64
	Weight int
}

// Point declares one coverage point: a source expression over the current
// transaction plus the bins partitioning its interesting values. Values
// outside every bin are still counted as samples (out-of-bin), never dropped.
type Point struct {
	Name   string
	Source func() uint64
	Bins   []Bin
	Weight int
}

// Cross declares a cross point over two or more previously declared points.
// It is evaluated on the same Sample call as its operands, using the bin each
// operand point selected for the current values.
type Cross struct {
	Name   string
	Of     []string
	Weight int
}

type pointState struct {
	def      Point
	binOf    map[uint64]int // value -> index into def.Bins
	hits     []uint64
	samples  uint64
	outOfBin uint64
	sel      int // bin selected by the current sample, -1 if none
}

type crossState struct {
	def     Cross
	of      []*pointState
	hits    map[string]uint64
	samples uint64
	missed  uint64 // samples where an operand point selected no bin
}

// Model is one extension's coverage model: a guard predicate, its points and
// its crosses, plus the accumulated counters. Counters only ever grow; there
// is no reset.
type Model struct {
	name       string
	guard      func() bool
	points     []*pointState
	byName     map[string]*pointState
	crosses    []*crossState
	accounting Accounting
	sampled    bool
}

// NewModel validates a model definition and returns a model with all counters
// at zero. The guard gates every sample; points and crosses are checked for
// the structural properties exact-match crossing relies on, in particular
// that no value belongs to two bins of one point.
func NewModel(name string, guard func() bool, points []Point, crosses []Cross) (*Model, error) {
	if name == "" {
		return nil, errors.New("model name cannot be empty")
	}
	if guard == nil {
		return nil, fmt.Errorf("model %s: guard cannot be nil", name)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("model %s: needs at least one point", name)
	}

	m := &Model{
		name:       name,
		guard:      guard,
		byName:     make(map[string]*pointState, len(points)),
		accounting: AccountingInstance,
	}

	for _, p := range points {
		ps, err := newPointState(name, p)
		if err != nil {
			return nil, err
		}
		if _, exists := m.byName[p.Name]; exists {
			return nil, fmt.Errorf("model %s: duplicate point %s", name, p.Name)
		}
		m.points = append(m.points, ps)
		m.byName[p.Name] = ps
	}

	seen := make(map[string]bool, len(crosses))
	for _, c := range crosses {
		cs, err := m.newCrossState(c)
		if err != nil {
			return nil, err
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("model %s: duplicate cross %s", name, c.Name)
		}
		seen[c.Name] = true
		m.crosses = append(m.crosses, cs)
	}

	return m, nil
}

func newPointState(model string, p Point) (*pointState, error) {
	if p.Name == "" {
		return nil, fmt.Errorf("model %s: point name cannot be empty", model)
	}
	if strings.Contains(p.Name, comboSep) {
		return nil, fmt.Errorf("model %s: point name %q may not contain %q", model, p.Name, comboSep)
	}
	if p.Source == nil {
		return nil, fmt.Errorf("model %s: point %s has no source expression", model, p.Name)
	}
	if len(p.Bins) == 0 {
		return nil, fmt.Errorf("model %s: point %s declares no bins", model, p.Name)
	}
	if p.Weight < 0 {
		return nil, fmt.Errorf("model %s: point %s has negative weight %d", model, p.Name, p.Weight)
	}
	if p.Weight == 0 {
		p.Weight = 1
	}

	ps := &pointState{
		def:   p,
		binOf: make(map[uint64]int),
		hits:  make([]uint64, len(p.Bins)),
		sel:   -1,
	}

	names := make(map[string]bool, len(p.Bins))
	for i := range p.Bins {
		b := &ps.def.Bins[i]
		if b.Name == "" {
			return nil, fmt.Errorf("model %s: point %s has an unnamed bin", model, p.Name)
		}
		if strings.Contains(b.Name, comboSep) {
			return nil, fmt.Errorf("model %s: bin name %q may not contain %q", model, b.Name, comboSep)
		}
		if names[b.Name] {
			return nil, fmt.Errorf("model %s: point %s declares bin %s twice", model, p.Name, b.Name)
		}
		names[b.Name] = true
		if len(b.Values) == 0 {
			return nil, fmt.Errorf("model %s: bin %s.%s has an empty value set", model, p.Name, b.Name)
		}
		if b.Weight < 0 {
			return nil, fmt.Errorf("model %s: bin %s.%s has negative weight %d", model, p.Name, b.Name, b.Weight)
		}
		if b.Weight == 0 {
			b.Weight = 1
		}
		for _, v := range b.Values {
			if prev, taken := ps.binOf[v]; taken {
				// Overlapping bins would make cross selection ambiguous.
				return nil, fmt.Errorf("model %s: point %s value %#x claimed by bins %s and %s",
					model, p.Name, v, ps.def.Bins[prev].Name, b.Name)
			}
			ps.binOf[v] = i
		}
	}
	return ps, nil
}

func (m *Model) newCrossState(c Cross) (*crossState, error) {
	if c.Name == "" {
		return nil, fmt.Errorf("model %s: cross name cannot be empty", m.name)
	}
	if len(c.Of) < 2 {
		return nil, fmt.Errorf("model %s: cross %s needs at least two points, got %d", m.name, c.Name, len(c.Of))
	}
	if c.Weight < 0 {
		return nil, fmt.Errorf("model %s: cross %s has negative weight %d", m.name, c.Name, c.Weight)
	}
	if c.Weight == 0 {
		c.Weight = 1
	}
	cs := &crossState{
		def:  c,
		hits: make(map[string]uint64),
	}
	for _, ref := range c.Of {
		ps, ok := m.byName[ref]
		if !ok {
			return nil, fmt.Errorf("model %s: cross %s references unknown point %s", m.name, c.Name, ref)
		}
		cs.of = append(cs.of, ps)
	}
	return cs, nil
}

// Name returns the model name.
func (m *Model) Name() string {
	return m.name
}

// Accounting returns the model's accounting mode.
func (m *Model) Accounting() Accounting {
	return m.accounting
}

// SetAccounting selects instance or merged accounting. The mode is part of
// how results are interpreted, so it can only change before the first sample.
func (m *Model) SetAccounting(mode Accounting) error {
	switch mode {
	case AccountingInstance, AccountingMerged:
	default:
		return fmt.Errorf("model %s: unknown accounting mode %q", m.name, mode)
	}
	if m.sampled {
		return fmt.Errorf("model %s: accounting mode cannot change after the first sample", m.name)
	}
	m.accounting = mode
	return nil
}

// Sample evaluates one coverage sample against the current source values.
// When the guard rejects the sample no counter moves at all. Otherwise every
// point counts the sample, the bin matching its value (if any) gains a hit,
// and every cross whose operand points all selected a bin counts the realized
// combination. Sample never fails; values outside every bin are recorded as
// out-of-bin observations.
func (m *Model) Sample() {
	m.sampled = true
	if !m.guard() {
		return
	}

	for _, p := range m.points {
		v := p.def.Source()
		p.samples++
		if i, ok := p.binOf[v]; ok {
			p.hits[i]++
			p.sel = i
		} else {
			p.outOfBin++
			p.sel = -1
		}
	}

	for _, c := range m.crosses {
		c.samples++
		key, ok := c.comboKey()
		if !ok {
			c.missed++
			continue
		}
		c.hits[key]++
	}
}

// comboKey builds the combination key from the bins the operand points
// selected during the current sample. ok is false when any operand fell
// outside all of its bins.
func (c *crossState) comboKey() (string, bool) {
	parts := make([]string, len(c.of))
	for i, ps := range c.of {
		if ps.sel < 0 {
			return "", false
		}
		parts[i] = ps.def.Bins[ps.sel].Name
	}
	return strings.Join(parts, comboSep), true
}
