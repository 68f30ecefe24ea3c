package collector

import (
	"github.com/julianmb-g/coralnpu/coverage"
	"github.com/julianmb-g/coralnpu/riscv"
)

// newZicsrModel builds the CSR-access coverage model. The CSR-address point
// bins on the machine-mode registers the core implements; an access to any
// other address is a legitimate out-of-bin observation, not an error.
func newZicsrModel(tx *riscv.ZicsrTransaction) (*coverage.Model, error) {
	named := riscv.NamedCSRs()
	csrBins := make([]coverage.Bin, 0, len(named))
	for _, c := range named {
		csrBins = append(csrBins, coverage.Bin{Name: c.Name, Values: []uint64{uint64(c.Addr)}})
	}

	points := []coverage.Point{
		instPoint(riscv.ExtZicsr.Mnemonics(), func() riscv.Mnemonic { return tx.Inst }),
		{
			Name:   "cp_csr",
			Source: func() uint64 { return uint64(tx.Csr) },
			Bins:   csrBins,
		},
		regPoint("cp_rd", "x", func() uint8 { return tx.RdAddr }),
		regPoint("cp_rs1", "x", func() uint8 { return tx.Rs1Addr }),
		wordCornerPoint("cp_rd_val", func() uint32 { return tx.RdVal }),
		wordCornerPoint("cp_rs1_val", func() uint32 { return tx.Rs1Val }),
	}
	crosses := []coverage.Cross{
		{Name: "cross_inst_csr", Of: []string{"cp_inst", "cp_csr"}},
		{Name: "cross_addr", Of: []string{"cp_rd", "cp_rs1"}},
	}
	return coverage.NewModel(string(riscv.ExtZicsr), func() bool { return !tx.Trap }, points, crosses)
}
