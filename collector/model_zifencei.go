package collector

import (
	"github.com/julianmb-g/coralnpu/coverage"
	"github.com/julianmb-g/coralnpu/riscv"
)

// newZifenceiModel builds the instruction-fence coverage model. FENCE.I has
// no behavioral operand space: the encoding pins funct12, rd and rs1 to
// zero, so every point is a single exact bin and the three crosses each have
// exactly one realizable combination.
func newZifenceiModel(tx *riscv.FenceTransaction) (*coverage.Model, error) {
	points := []coverage.Point{
		instPoint(riscv.ExtZifencei.Mnemonics(), func() riscv.Mnemonic { return tx.Inst }),
		singleBin("cp_funct12", "zero", 0, func() uint64 { return uint64(tx.Funct12) }),
		singleBin("cp_rd", "x0", 0, func() uint64 { return uint64(tx.RdAddr) }),
		singleBin("cp_rs1", "x0", 0, func() uint64 { return uint64(tx.Rs1Addr) }),
		singleBin("cp_rd_val", "zero", 0, func() uint64 { return uint64(tx.RdVal) }),
		singleBin("cp_rs1_val", "zero", 0, func() uint64 { return uint64(tx.Rs1Val) }),
	}
	crosses := []coverage.Cross{
		{Name: "cross_inst_funct12", Of: []string{"cp_inst", "cp_funct12"}},
		{Name: "cross_addr", Of: []string{"cp_rd", "cp_rs1"}},
		{Name: "cross_val", Of: []string{"cp_rd_val", "cp_rs1_val"}},
	}
	return coverage.NewModel(string(riscv.ExtZifencei), func() bool { return !tx.Trap }, points, crosses)
}
