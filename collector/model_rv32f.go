package collector

import (
	"github.com/julianmb-g/coralnpu/coverage"
	"github.com/julianmb-g/coralnpu/riscv"
)

// newRV32FModel builds the single-precision floating-point coverage model.
// Value points bin on IEEE 754 special encodings; the rounding-mode point
// enumerates the five static modes plus DYN.
func newRV32FModel(tx *riscv.RV32FTransaction) (*coverage.Model, error) {
	points := []coverage.Point{
		instPoint(riscv.ExtRV32F.Mnemonics(), func() riscv.Mnemonic { return tx.Inst }),
		regPoint("cp_fd", "f", func() uint8 { return tx.FdAddr }),
		regPoint("cp_fs1", "f", func() uint8 { return tx.Fs1Addr }),
		regPoint("cp_fs2", "f", func() uint8 { return tx.Fs2Addr }),
		floatCornerPoint("cp_fd_val", func() uint32 { return tx.FdVal }),
		floatCornerPoint("cp_fs1_val", func() uint32 { return tx.Fs1Val }),
		floatCornerPoint("cp_fs2_val", func() uint32 { return tx.Fs2Val }),
		{
			Name:   "cp_rm",
			Source: func() uint64 { return uint64(tx.Rm) },
			Bins: []coverage.Bin{
				{Name: "rne", Values: []uint64{0}},
				{Name: "rtz", Values: []uint64{1}},
				{Name: "rdn", Values: []uint64{2}},
				{Name: "rup", Values: []uint64{3}},
				{Name: "rmm", Values: []uint64{4}},
				{Name: "dyn", Values: []uint64{7}},
			},
		},
	}
	crosses := []coverage.Cross{
		{Name: "cross_addr", Of: []string{"cp_fd", "cp_fs1", "cp_fs2"}},
		{Name: "cross_inst_rm", Of: []string{"cp_inst", "cp_rm"}},
	}
	return coverage.NewModel(string(riscv.ExtRV32F), func() bool { return !tx.Trap }, points, crosses)
}
