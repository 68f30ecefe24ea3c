package collector

import (
	"fmt"
	"sync"

	"github.com/julianmb-g/coralnpu/coverage"
	"github.com/julianmb-g/coralnpu/riscv"
)

// Listener bridges one extension's notification channel into that
// extension's held transaction slot and coverage model. Write runs the
// copy-then-sample sequence as one atomic unit under a per-extension mutex;
// listeners of different extensions share no state.
type Listener struct {
	ext   riscv.Extension
	mu    sync.Mutex
	apply func(riscv.Transaction) error
	model *coverage.Model
}

// newListener wires a listener to an already constructed model and slot
// apply function. Wiring a listener without either is a programming error,
// not a data condition, so it fails fast.
func newListener(ext riscv.Extension, model *coverage.Model, apply func(riscv.Transaction) error) *Listener {
	if model == nil || apply == nil {
		panic(fmt.Sprintf("collector: listener for %s attached before its model and transaction slot", ext))
	}
	return &Listener{ext: ext, model: model, apply: apply}
}

// Extension returns the extension this listener serves.
func (l *Listener) Extension() riscv.Extension {
	return l.ext
}

// Write validates the incoming transaction, deep-copies it into the held
// slot and samples the coverage model, completing synchronously before
// returning. Nothing is buffered, reordered or dropped; an error means no
// counter moved.
func (l *Listener) Write(tx riscv.Transaction) error {
	if tx == nil {
		return fmt.Errorf("%s channel: nil transaction", l.ext)
	}
	if got := tx.Extension(); got != l.ext {
		return fmt.Errorf("%s channel: transaction belongs to extension %s", l.ext, got)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.apply(tx); err != nil {
		return err
	}
	l.model.Sample()
	return nil
}
func rejectType(ext riscv.Extension, tx riscv.Transaction) error {
	return fmt.Errorf("%s channel: unexpected transaction type %T", ext, tx)
}

func rejectMalformed(ext riscv.Extension, err error) error {
	return fmt.Errorf("%s channel: rejecting malformed transaction: %w", ext, err)
}
