package collector

import (
	"github.com/julianmb-g/coralnpu/coverage"
	"github.com/julianmb-g/coralnpu/riscv"
)

// newRV32IModel builds the base-integer coverage model: full mnemonic and
// register-address spaces, word corner values, and immediate corners for the
// sign-extended immediate reinterpreted as an unsigned bit pattern.
func newRV32IModel(tx *riscv.RV32ITransaction) (*coverage.Model, error) {
	points := []coverage.Point{
		instPoint(riscv.ExtRV32I.Mnemonics(), func() riscv.Mnemonic { return tx.Inst }),
		regPoint("cp_rd", "x", func() uint8 { return tx.RdAddr }),
		regPoint("cp_rs1", "x", func() uint8 { return tx.Rs1Addr }),
		regPoint("cp_rs2", "x", func() uint8 { return tx.Rs2Addr }),
		wordCornerPoint("cp_rd_val", func() uint32 { return tx.RdVal }),
		wordCornerPoint("cp_rs1_val", func() uint32 { return tx.Rs1Val }),
		wordCornerPoint("cp_rs2_val", func() uint32 { return tx.Rs2Val }),
		{
			Name:   "cp_imm",
			Source: func() uint64 { return uint64(uint32(tx.Imm)) },
			Bins: []coverage.Bin{
				{Name: "zero", Values: []uint64{0}},
				{Name: "one", Values: []uint64{1}},
				{Name: "minus_one", Values: []uint64{0xFFFFFFFF}},
				{Name: "max_itype", Values: []uint64{2047}},
				{Name: "min_itype", Values: []uint64{0xFFFFF800}},
			},
		},
	}
	crosses := []coverage.Cross{
		{Name: "cross_addr", Of: []string{"cp_rd", "cp_rs1", "cp_rs2"}},
		{Name: "cross_val", Of: []string{"cp_rs1_val", "cp_rs2_val"}},
	}
	return coverage.NewModel(string(riscv.ExtRV32I), func() bool { return !tx.Trap }, points, crosses)
}
