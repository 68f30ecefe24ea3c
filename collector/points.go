package collector

import (
	"fmt"

	"github.com/julianmb-g/coralnpu/coverage"
	"github.com/julianmb-g/coralnpu/riscv"
)

// Point construction helpers shared by the seven extension models. Every
// model is the same generic engine instantiated with a different field list
// and bin table; these helpers keep the per-extension files declarative.

// instPoint covers the instruction mnemonic with one exact bin per member of
// the extension's instruction set.
func instPoint(insts []riscv.Mnemonic, src func() riscv.Mnemonic) coverage.Point {
	bins := make([]coverage.Bin, 0, len(insts))
	for _, m := range insts {
		bins = append(bins, coverage.Bin{Name: string(m), Values: []uint64{m.Code()}})
	}
	return coverage.Point{
		Name:   "cp_inst",
		Source: func() uint64 { return src().Code() },
		Bins:   bins,
	}
}

// regPoint covers a 5-bit register-address field with one bin per
// architectural register, named with the file's prefix (x, f or v).
func regPoint(name, prefix string, src func() uint8) coverage.Point {
	bins := make([]coverage.Bin, 0, 32)
	for i := 0; i < 32; i++ {
		bins = append(bins, coverage.Bin{
			Name:   fmt.Sprintf("%s%d", prefix, i),
			Values: []uint64{uint64(i)},
		})
	}
	return coverage.Point{
		Name:   name,
		Source: func() uint64 { return uint64(src()) },
		Bins:   bins,
	}
}

// wordCornerPoint covers an integer register value with its corner cases.
// Signed corners are reinterpreted as unsigned bit patterns, the one value
// transform the models use.
func wordCornerPoint(name string, src func() uint32) coverage.Point {
	return coverage.Point{
		Name:   name,
		Source: func() uint64 { return uint64(src()) },
		Bins: []coverage.Bin{
			{Name: "zero", Values: []uint64{0}},
			{Name: "all_ones", Values: []uint64{0xFFFFFFFF}},
			{Name: "max_pos", Values: []uint64{0x7FFFFFFF}},
			{Name: "min_neg", Values: []uint64{0x80000000}},
		},
	}
}

// floatCornerPoint covers an IEEE 754 single-precision value field with its
// special encodings plus 1.0 as the ordinary-number representative.
func floatCornerPoint(name string, src func() uint32) coverage.Point {
	return coverage.Point{
		Name:   name,
		Source: func() uint64 { return uint64(src()) },
		Bins: []coverage.Bin{
			{Name: "pos_zero", Values: []uint64{0x00000000}},
			{Name: "neg_zero", Values: []uint64{0x80000000}},
			{Name: "pos_inf", Values: []uint64{0x7F800000}},
			{Name: "neg_inf", Values: []uint64{0xFF800000}},
			{Name: "quiet_nan", Values: []uint64{0x7FC00000}},
			{Name: "one", Values: []uint64{0x3F800000}},
		},
	}
}

// singleBin declares a point whose whole modeled space is one exact bin, the
// shape the fence model uses throughout.
func singleBin(point, bin string, value uint64, src func() uint64) coverage.Point {
	return coverage.Point{
		Name:   point,
		Source: src,
		Bins:   []coverage.Bin{{Name: bin, Values: []uint64{value}}},
	}
}
