package collector

import (
	"github.com/julianmb-g/coralnpu/coverage"
	"github.com/julianmb-g/coralnpu/riscv"
)

// newRV32MModel builds the multiply/divide coverage model. The value corner
// bins matter most here: divide-by-zero and the signed-overflow operands are
// the interesting cases the word corners capture.
func newRV32MModel(tx *riscv.RV32MTransaction) (*coverage.Model, error) {
	points := []coverage.Point{
		instPoint(riscv.ExtRV32M.Mnemonics(), func() riscv.Mnemonic { return tx.Inst }),
		regPoint("cp_rd", "x", func() uint8 { return tx.RdAddr }),
		regPoint("cp_rs1", "x", func() uint8 { return tx.Rs1Addr }),
		regPoint("cp_rs2", "x", func() uint8 { return tx.Rs2Addr }),
		wordCornerPoint("cp_rd_val", func() uint32 { return tx.RdVal }),
		wordCornerPoint("cp_rs1_val", func() uint32 { return tx.Rs1Val }),
		wordCornerPoint("cp_rs2_val", func() uint32 { return tx.Rs2Val }),
	}
	crosses := []coverage.Cross{
		{Name: "cross_addr", Of: []string{"cp_rd", "cp_rs1", "cp_rs2"}},
		{Name: "cross_val", Of: []string{"cp_rs1_val", "cp_rs2_val"}},
	}
	return coverage.NewModel(string(riscv.ExtRV32M), func() bool { return !tx.Trap }, points, crosses)
}
