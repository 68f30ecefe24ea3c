package collector

import (
	"github.com/julianmb-g/coralnpu/coverage"
	"github.com/julianmb-g/coralnpu/riscv"
)

// newZbbModel builds the bit-manipulation coverage model. The shift-amount
// point bins the boundary amounts of the rotate-immediate form.
func newZbbModel(tx *riscv.ZbbTransaction) (*coverage.Model, error) {
	points := []coverage.Point{
		instPoint(riscv.ExtZbb.Mnemonics(), func() riscv.Mnemonic { return tx.Inst }),
		regPoint("cp_rd", "x", func() uint8 { return tx.RdAddr }),
		regPoint("cp_rs1", "x", func() uint8 { return tx.Rs1Addr }),
		regPoint("cp_rs2", "x", func() uint8 { return tx.Rs2Addr }),
		wordCornerPoint("cp_rd_val", func() uint32 { return tx.RdVal }),
		wordCornerPoint("cp_rs1_val", func() uint32 { return tx.Rs1Val }),
		wordCornerPoint("cp_rs2_val", func() uint32 { return tx.Rs2Val }),
		{
			Name:   "cp_shamt",
			Source: func() uint64 { return uint64(tx.Shamt) },
			Bins: []coverage.Bin{
				{Name: "shamt_0", Values: []uint64{0}},
				{Name: "shamt_1", Values: []uint64{1}},
				{Name: "shamt_16", Values: []uint64{16}},
				{Name: "shamt_31", Values: []uint64{31}},
			},
		},
	}
	crosses := []coverage.Cross{
		{Name: "cross_addr", Of: []string{"cp_rd", "cp_rs1", "cp_rs2"}},
		{Name: "cross_inst_shamt", Of: []string{"cp_inst", "cp_shamt"}},
	}
	return coverage.NewModel(string(riscv.ExtZbb), func() bool { return !tx.Trap }, points, crosses)
}
