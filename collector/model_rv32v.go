package collector

import (
	"github.com/julianmb-g/coralnpu/coverage"
	"github.com/julianmb-g/coralnpu/riscv"
)

// newRV32VModel builds the vector coverage model. Besides the register
// space it tracks the vtype configuration each instruction retired under:
// element width (vsew encoding) and group multiplier (vlmul encoding), plus
// their cross, since the shape combinations exercise distinct datapaths.
func newRV32VModel(tx *riscv.RV32VTransaction) (*coverage.Model, error) {
	points := []coverage.Point{
		instPoint(riscv.ExtRV32V.Mnemonics(), func() riscv.Mnemonic { return tx.Inst }),
		regPoint("cp_vd", "v", func() uint8 { return tx.VdAddr }),
		regPoint("cp_vs1", "v", func() uint8 { return tx.Vs1Addr }),
		regPoint("cp_vs2", "v", func() uint8 { return tx.Vs2Addr }),
		{
			Name:   "cp_sew",
			Source: func() uint64 { return uint64(tx.Sew) },
			Bins: []coverage.Bin{
				{Name: "e8", Values: []uint64{0}},
				{Name: "e16", Values: []uint64{1}},
				{Name: "e32", Values: []uint64{2}},
			},
		},
		{
			Name:   "cp_lmul",
			Source: func() uint64 { return uint64(tx.Lmul) },
			Bins: []coverage.Bin{
				{Name: "m1", Values: []uint64{0}},
				{Name: "m2", Values: []uint64{1}},
				{Name: "m4", Values: []uint64{2}},
				{Name: "m8", Values: []uint64{3}},
			},
		},
	}
	crosses := []coverage.Cross{
		{Name: "cross_addr", Of: []string{"cp_vd", "cp_vs1", "cp_vs2"}},
		{Name: "cross_shape", Of: []string{"cp_sew", "cp_lmul"}},
	}
	return coverage.NewModel(string(riscv.ExtRV32V), func() bool { return !tx.Trap }, points, crosses)
}
