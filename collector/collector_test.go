package collector

import (
	"testing"

	"github.com/julianmb-g/coralnpu/coverage"
	"github.com/julianmb-g/coralnpu/riscv"
)

func fenceTx() *riscv.FenceTransaction {
	return &riscv.FenceTransaction{Inst: riscv.InstFENCEI}
}

func findPoint(t *testing.T, rep coverage.ModelReport, name string) coverage.PointReport {
	t.Helper()
	for _, p := range rep.Points {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("point %s not found in model %s", name, rep.Name)
	return coverage.PointReport{}
}

func TestFenceSingleSampleFullCoverage(t *testing.T) {
	c, err := New(WithExtensions(riscv.ExtZifencei))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if err := c.WriteZifencei(fenceTx()); err != nil {
		t.Fatalf("WriteZifencei failed: %v", err)
	}

	rep, err := c.ModelReport(riscv.ExtZifencei)
	if err != nil {
		t.Fatalf("ModelReport failed: %v", err)
	}
	for _, p := range rep.Points {
		if len(p.Bins) != 1 {
			t.Fatalf("point %s: expected a single bin, got %d", p.Name, len(p.Bins))
		}
		if p.Bins[0].Count != 1 {
			t.Errorf("point %s bin %s: expected count 1, got %d", p.Name, p.Bins[0].Name, p.Bins[0].Count)
		}
		if p.OutOfBin != 0 {
			t.Errorf("point %s: unexpected out-of-bin count %d", p.Name, p.OutOfBin)
		}
	}
	if len(rep.Crosses) != 3 {
		t.Fatalf("expected 3 crosses, got %d", len(rep.Crosses))
	}
	for _, cr := range rep.Crosses {
		if cr.Hit != 1 || cr.Declared != 1 {
			t.Errorf("cross %s: expected 1/1 combinations, got %d/%d", cr.Name, cr.Hit, cr.Declared)
		}
		if len(cr.Combos) != 1 || cr.Combos[0].Count != 1 {
			t.Errorf("cross %s: expected one combination with count 1, got %+v", cr.Name, cr.Combos)
		}
	}
	if rep.Score != 1.0 {
		t.Errorf("expected 100%% coverage, got %.4f", rep.Score)
	}
}

func TestFenceTrappedSampleChangesNothing(t *testing.T) {
	c, err := New(WithExtensions(riscv.ExtZifencei))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := c.WriteZifencei(fenceTx()); err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	before, _ := c.ModelReport(riscv.ExtZifencei)

	trapped := fenceTx()
	trapped.Trap = true
	if err := c.WriteZifencei(trapped); err != nil {
		t.Fatalf("trapped write failed: %v", err)
	}

	after, _ := c.ModelReport(riscv.ExtZifencei)
	for i, p := range after.Points {
		if p.Samples != before.Points[i].Samples {
			t.Errorf("point %s: trapped sample moved the sample count", p.Name)
		}
		for j, b := range p.Bins {
			if b.Count != before.Points[i].Bins[j].Count {
				t.Errorf("point %s bin %s: trapped sample moved the hit count", p.Name, b.Name)
			}
		}
	}
	for i, cr := range after.Crosses {
		if cr.Samples != before.Crosses[i].Samples || cr.Hit != before.Crosses[i].Hit {
			t.Errorf("cross %s: trapped sample moved a counter", cr.Name)
		}
	}
}

func TestExtensionIndependence(t *testing.T) {
	interleaved, err := New(WithExtensions(riscv.ExtRV32I, riscv.ExtRV32M))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	isolatedI, _ := New(WithExtensions(riscv.ExtRV32I))
	isolatedM, _ := New(WithExtensions(riscv.ExtRV32M))

	iTxs := []*riscv.RV32ITransaction{
		{Inst: riscv.InstADD, RdAddr: 1, Rs1Addr: 2, Rs2Addr: 3, Rs1Val: 0xFFFFFFFF},
		{Inst: riscv.InstSUB, RdAddr: 4, Rs1Addr: 5, Rs2Addr: 6},
	}
	mTxs := []*riscv.RV32MTransaction{
		{Inst: riscv.InstMUL, RdAddr: 7, Rs1Addr: 8, Rs2Addr: 9},
		{Inst: riscv.InstDIV, RdAddr: 1, Rs1Addr: 2, Rs2Addr: 3, Rs2Val: 0},
	}

	// Interleave across the two channels.
	for i := 0; i < 2; i++ {
		if err := interleaved.WriteRV32I(iTxs[i]); err != nil {
			t.Fatalf("interleaved rv32i write failed: %v", err)
		}
		if err := interleaved.WriteRV32M(mTxs[i]); err != nil {
			t.Fatalf("interleaved rv32m write failed: %v", err)
		}
		if err := isolatedI.WriteRV32I(iTxs[i]); err != nil {
			t.Fatalf("isolated rv32i write failed: %v", err)
		}
		if err := isolatedM.WriteRV32M(mTxs[i]); err != nil {
			t.Fatalf("isolated rv32m write failed: %v", err)
		}
	}

	compareModel := func(ext riscv.Extension, isolated *Collector) {
		a, _ := interleaved.ModelReport(ext)
		b, _ := isolated.ModelReport(ext)
		for i, p := range a.Points {
			if p.Samples != b.Points[i].Samples || p.OutOfBin != b.Points[i].OutOfBin {
				t.Errorf("%s point %s: interleaved and isolated counters differ", ext, p.Name)
			}
			for j, bin := range p.Bins {
				if bin.Count != b.Points[i].Bins[j].Count {
					t.Errorf("%s point %s bin %s: %d vs %d", ext, p.Name, bin.Name, bin.Count, b.Points[i].Bins[j].Count)
				}
			}
		}
	}
	compareModel(riscv.ExtRV32I, isolatedI)
	compareModel(riscv.ExtRV32M, isolatedM)
}

func TestWriteRejectsMalformedTransaction(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	bad := &riscv.RV32ITransaction{Inst: riscv.InstADD, RdAddr: 40}
	if err := c.WriteRV32I(bad); err == nil {
		t.Fatal("expected out-of-width rd to be rejected")
	}

	rep, _ := c.ModelReport(riscv.ExtRV32I)
	if p := findPoint(t, rep, "cp_rd"); p.Samples != 0 {
		t.Errorf("rejected transaction moved a counter: %d samples", p.Samples)
	}
}

func TestWriteRejectsForeignMnemonic(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := c.WriteRV32M(&riscv.RV32MTransaction{Inst: riscv.InstADD}); err == nil {
		t.Fatal("expected ADD on the rv32m channel to be rejected")
	}
}

func TestWriteDispatchTable(t *testing.T) {
	c, err := New(WithExtensions(riscv.ExtZifencei))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if err := c.Write(fenceTx()); err != nil {
		t.Fatalf("table dispatch failed: %v", err)
	}
	if err := c.Write(&riscv.RV32ITransaction{Inst: riscv.InstADD}); err == nil {
		t.Fatal("expected write to an inactive extension to fail")
	}
	if err := c.Write(nil); err == nil {
		t.Fatal("expected nil transaction to fail")
	}
}

func TestListenerEntryPoint(t *testing.T) {
	c, err := New(WithExtensions(riscv.ExtZbb))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	l, err := c.Listener(riscv.ExtZbb)
	if err != nil {
		t.Fatalf("Listener failed: %v", err)
	}
	if l.Extension() != riscv.ExtZbb {
		t.Fatalf("listener serves %s, expected zbb", l.Extension())
	}

	if err := l.Write(&riscv.ZbbTransaction{Inst: riscv.InstANDN, Shamt: 16}); err != nil {
		t.Fatalf("listener write failed: %v", err)
	}
	if err := l.Write(fenceTx()); err == nil {
		t.Fatal("expected a fence transaction on the zbb channel to be rejected")
	}

	if _, err := c.Listener(riscv.ExtRV32V); err == nil {
		t.Fatal("expected inactive extension listener lookup to fail")
	}
}

func TestHeldSlotIsACopy(t *testing.T) {
	c, err := New(WithExtensions(riscv.ExtZifencei))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	tx := fenceTx()
	if err := c.WriteZifencei(tx); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	// Mutating the caller's value after Write must not affect the held slot.
	tx.RdAddr = 9
	tx.Trap = true
	if c.zifencei.RdAddr != 0 || c.zifencei.Trap {
		t.Fatal("held slot aliases the caller's transaction")
	}
}

func TestAccountingAppliedToModels(t *testing.T) {
	c, err := New(WithAccounting(coverage.AccountingMerged))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	rep, _ := c.ModelReport(riscv.ExtRV32I)
	if rep.Accounting != coverage.AccountingMerged {
		t.Fatalf("expected merged accounting, got %s", rep.Accounting)
	}
}

func TestDuplicateExtensionRejected(t *testing.T) {
	if _, err := New(WithExtensions(riscv.ExtZbb, riscv.ExtZbb)); err == nil {
		t.Fatal("expected duplicate extension to be rejected")
	}
}

func TestListenerWiringDefectPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected newListener without a model to panic")
		}
	}()
	newListener(riscv.ExtZbb, nil, func(riscv.Transaction) error { return nil })
}

func TestTypedNilRejected(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := c.WriteZifencei(nil); err == nil {
		t.Fatal("expected nil typed transaction to be rejected")
	}
}

func TestReportCoversAllActiveExtensions(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	rep := c.Report()
	if len(rep.Models) != len(riscv.Extensions()) {
		t.Fatalf("expected %d model reports, got %d", len(riscv.Extensions()), len(rep.Models))
	}
	for i, ext := range riscv.Extensions() {
		if rep.Models[i].Name != string(ext) {
			t.Errorf("model %d: expected %s, got %s", i, ext, rep.Models[i].Name)
		}
	}
}
