// Package collector owns the per-extension coverage wiring: one transaction
// slot, one coverage model and one listener per active instruction-set
// extension, plus the registration table the external instruction monitor
// attaches to. Extensions never interact; a write on one channel can only
// move that extension's counters.
package collector

import (
	"fmt"

	"github.com/julianmb-g/coralnpu/coverage"
	"github.com/julianmb-g/coralnpu/riscv"
)

// Option configures a Collector before construction.
type Option func(*settings)

type settings struct {
	extensions []riscv.Extension
	accounting coverage.Accounting
}

// WithExtensions restricts the collector to the given extensions instead of
// all seven.
func WithExtensions(exts ...riscv.Extension) Option {
	return func(s *settings) {
		s.extensions = append([]riscv.Extension(nil), exts...)
	}
}

// WithAccounting selects instance or merged accounting for every model. It
// applies at construction, before any sample can have happened.
func WithAccounting(mode coverage.Accounting) Option {
	return func(s *settings) {
		s.accounting = mode
	}
}

// Collector is the single attachment point for the external monitor. It is
// built in two phases: every transaction slot and coverage model first, then
// the listeners, so no listener can ever observe a half-wired extension.
type Collector struct {
	order    []riscv.Extension
	models   map[riscv.Extension]*coverage.Model
	channels map[riscv.Extension]*Listener

	rv32i    *riscv.RV32ITransaction
	rv32m    *riscv.RV32MTransaction
	rv32f    *riscv.RV32FTransaction
	rv32v    *riscv.RV32VTransaction
	zicsr    *riscv.ZicsrTransaction
	zbb      *riscv.ZbbTransaction
	zifencei *riscv.FenceTransaction
}

// New builds a collector covering the configured extensions (all seven by
// default).
func New(opts ...Option) (*Collector, error) {
	s := settings{
		extensions: riscv.Extensions(),
		accounting: coverage.AccountingInstance,
	}
	for _, opt := range opts {
		opt(&s)
	}
	if len(s.extensions) == 0 {
		return nil, fmt.Errorf("collector: no extensions configured")
	}

	c := &Collector{
		models:   make(map[riscv.Extension]*coverage.Model, len(s.extensions)),
		channels: make(map[riscv.Extension]*Listener, len(s.extensions)),
	}

	// Phase one: slots and models for every active extension.
	applies := make(map[riscv.Extension]func(riscv.Transaction) error, len(s.extensions))
	for _, ext := range s.extensions {
		if _, dup := c.models[ext]; dup {
			return nil, fmt.Errorf("collector: extension %s configured twice", ext)
		}
		model, apply, err := c.buildExtension(ext)
		if err != nil {
			return nil, err
		}
		if err := model.SetAccounting(s.accounting); err != nil {
			return nil, err
		}
		c.models[ext] = model
		applies[ext] = apply
		c.order = append(c.order, ext)
	}

	// Phase two: listeners, attached only against constructed models.
	for _, ext := range c.order {
		c.channels[ext] = newListener(ext, c.models[ext], applies[ext])
	}
	return c, nil
}

func (c *Collector) buildExtension(ext riscv.Extension) (*coverage.Model, func(riscv.Transaction) error, error) {
	switch ext {
	case riscv.ExtRV32I:
		c.rv32i = &riscv.RV32ITransaction{}
		model, err := newRV32IModel(c.rv32i)
		return model, c.applyRV32I, err
	case riscv.ExtRV32M:
		c.rv32m = &riscv.RV32MTransaction{}
		model, err := newRV32MModel(c.rv32m)
		return model, c.applyRV32M, err
	case riscv.ExtRV32F:
		c.rv32f = &riscv.RV32FTransaction{}
		model, err := newRV32FModel(c.rv32f)
		return model, c.applyRV32F, err
	case riscv.ExtRV32V:
		c.rv32v = &riscv.RV32VTransaction{}
		model, err := newRV32VModel(c.rv32v)
		return model, c.applyRV32V, err
	case riscv.ExtZicsr:
		c.zicsr = &riscv.ZicsrTransaction{}
		model, err := newZicsrModel(c.zicsr)
		return model, c.applyZicsr, err
	case riscv.ExtZbb:
		c.zbb = &riscv.ZbbTransaction{}
		model, err := newZbbModel(c.zbb)
		return model, c.applyZbb, err
	case riscv.ExtZifencei:
		c.zifencei = &riscv.FenceTransaction{}
		model, err := newZifenceiModel(c.zifencei)
		return model, c.applyZifencei, err
	default:
		return nil, nil, fmt.Errorf("collector: unknown extension %q", ext)
	}
}

// The apply functions run under the owning listener's mutex. Each one
// asserts the concrete type, enforces field widths at this boundary, then
// deep-copies into the held slot so later mutation of the caller's value
// cannot touch a completed sample.

func (c *Collector) applyRV32I(tx riscv.Transaction) error {
	in, ok := tx.(*riscv.RV32ITransaction)
	if !ok || in == nil {
		return rejectType(riscv.ExtRV32I, tx)
	}
	if err := in.Validate(); err != nil {
		return rejectMalformed(riscv.ExtRV32I, err)
	}
	c.rv32i.CopyFrom(in)
	return nil
}

func (c *Collector) applyRV32M(tx riscv.Transaction) error {
	in, ok := tx.(*riscv.RV32MTransaction)
	if !ok || in == nil {
		return rejectType(riscv.ExtRV32M, tx)
	}
	if err := in.Validate(); err != nil {
		return rejectMalformed(riscv.ExtRV32M, err)
	}
	c.rv32m.CopyFrom(in)
	return nil
}

func (c *Collector) applyRV32F(tx riscv.Transaction) error {
	in, ok := tx.(*riscv.RV32FTransaction)
	if !ok || in == nil {
		return rejectType(riscv.ExtRV32F, tx)
	}
	if err := in.Validate(); err != nil {
		return rejectMalformed(riscv.ExtRV32F, err)
	}
	c.rv32f.CopyFrom(in)
	return nil
}

func (c *Collector) applyRV32V(tx riscv.Transaction) error {
	in, ok := tx.(*riscv.RV32VTransaction)
	if !ok || in == nil {
		return rejectType(riscv.ExtRV32V, tx)
	}
	if err := in.Validate(); err != nil {
		return rejectMalformed(riscv.ExtRV32V, err)
	}
	c.rv32v.CopyFrom(in)
	return nil
}

func (c *Collector) applyZicsr(tx riscv.Transaction) error {
	in, ok := tx.(*riscv.ZicsrTransaction)
	if !ok || in == nil {
		return rejectType(riscv.ExtZicsr, tx)
	}
	if err := in.Validate(); err != nil {
		return rejectMalformed(riscv.ExtZicsr, err)
	}
	c.zicsr.CopyFrom(in)
	return nil
}

func (c *Collector) applyZbb(tx riscv.Transaction) error {
	in, ok := tx.(*riscv.ZbbTransaction)
	if !ok || in == nil {
		return rejectType(riscv.ExtZbb, tx)
	}
	if err := in.Validate(); err != nil {
		return rejectMalformed(riscv.ExtZbb, err)
	}
	c.zbb.CopyFrom(in)
	return nil
}

func (c *Collector) applyZifencei(tx riscv.Transaction) error {
	in, ok := tx.(*riscv.FenceTransaction)
	if !ok || in == nil {
		return rejectType(riscv.ExtZifencei, tx)
	}
	if err := in.Validate(); err != nil {
		return rejectMalformed(riscv.ExtZifencei, err)
	}
	c.zifencei.CopyFrom(in)
	return nil
}

// Extensions returns the active extensions in construction order.
func (c *Collector) Extensions() []riscv.Extension {
	return append([]riscv.Extension(nil), c.order...)
}

// Listener returns the notification entry point for one extension. The
// external monitor holds on to these and drives them directly.
func (c *Collector) Listener(ext riscv.Extension) (*Listener, error) {
	l, ok := c.channels[ext]
	if !ok {
		return nil, fmt.Errorf("collector: extension %s is not active", ext)
	}
	return l, nil
}

// Write dispatches a transaction to its extension's listener through the
// registration table.
func (c *Collector) Write(tx riscv.Transaction) error {
	if tx == nil {
		return fmt.Errorf("collector: nil transaction")
	}
	l, ok := c.channels[tx.Extension()]
	if !ok {
		return fmt.Errorf("collector: extension %s is not active", tx.Extension())
	}
	return l.Write(tx)
}

// Typed entry points, one per extension, for monitors that prefer static
// dispatch over the table.

func (c *Collector) WriteRV32I(tx *riscv.RV32ITransaction) error {
	return c.writeTyped(riscv.ExtRV32I, tx, tx == nil)
}

func (c *Collector) WriteRV32M(tx *riscv.RV32MTransaction) error {
	return c.writeTyped(riscv.ExtRV32M, tx, tx == nil)
}

func (c *Collector) WriteRV32F(tx *riscv.RV32FTransaction) error {
	return c.writeTyped(riscv.ExtRV32F, tx, tx == nil)
}

func (c *Collector) WriteRV32V(tx *riscv.RV32VTransaction) error {
	return c.writeTyped(riscv.ExtRV32V, tx, tx == nil)
}

func (c *Collector) WriteZicsr(tx *riscv.ZicsrTransaction) error {
	return c.writeTyped(riscv.ExtZicsr, tx, tx == nil)
}

func (c *Collector) WriteZbb(tx *riscv.ZbbTransaction) error {
	return c.writeTyped(riscv.ExtZbb, tx, tx == nil)
}

func (c *Collector) WriteZifencei(tx *riscv.FenceTransaction) error {
	return c.writeTyped(riscv.ExtZifencei, tx, tx == nil)
}

func (c *Collector) writeTyped(ext riscv.Extension, tx riscv.Transaction, isNil bool) error {
	if isNil {
		return fmt.Errorf("%s channel: nil transaction", ext)
	}
	l, ok := c.channels[ext]
	if !ok {
		return fmt.Errorf("collector: extension %s is not active", ext)
	}
	return l.Write(tx)
}

// Report is the post-run query surface: one model report per active
// extension plus the unweighted mean score across them.
type Report struct {
	Models []coverage.ModelReport `json:"models"`
	Score  float64                `json:"score"`
}

// Report snapshots every active model's counters in construction order.
func (c *Collector) Report() Report {
	var rep Report
	var sum float64
	for _, ext := range c.order {
		mr := c.models[ext].Report()
		rep.Models = append(rep.Models, mr)
		sum += mr.Score
	}
	if len(rep.Models) > 0 {
		rep.Score = sum / float64(len(rep.Models))
	}
	return rep
}

// ModelReport returns one extension's report.
func (c *Collector) ModelReport(ext riscv.Extension) (coverage.ModelReport, error) {
	m, ok := c.models[ext]
	if !ok {
		return coverage.ModelReport{}, fmt.Errorf("collector: extension %s is not active", ext)
	}
	return m.Report(), nil
}
