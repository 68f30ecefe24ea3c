package coverage_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/julianmb-g/coralnpu/coverage"
)

// fakeTx stands in for a held transaction slot: the points' source
// expressions close over it exactly the way the extension models close over
// their transaction.
type fakeTx struct {
	a    uint64
	b    uint64
	trap bool
}

func findPoint(rep coverage.ModelReport, name string) coverage.PointReport {
	for _, p := range rep.Points {
		if p.Name == name {
			return p
		}
	}
	Fail("point not found: " + name)
	return coverage.PointReport{}
}

func findCross(rep coverage.ModelReport, name string) coverage.CrossReport {
	for _, c := range rep.Crosses {
		if c.Name == name {
			return c
		}
	}
	Fail("cross not found: " + name)
	return coverage.CrossReport{}
}

func binCount(p coverage.PointReport, name string) uint64 {
	for _, b := range p.Bins {
		if b.Name == name {
			return b.Count
		}
	}
	Fail("bin not found: " + name)
	return 0
}

var _ = Describe("Model", func() {
	var (
		tx    *fakeTx
		model *coverage.Model
	)

	points := func() []coverage.Point {
		return []coverage.Point{
			{
				Name:   "cp_a",
				Source: func() uint64 { return tx.a },
				Bins: []coverage.Bin{
					{Name: "zero", Values: []uint64{0}},
					{Name: "one", Values: []uint64{1}},
				},
			},
			{
				Name:   "cp_b",
				Source: func() uint64 { return tx.b },
				Bins: []coverage.Bin{
					{Name: "lo", Values: []uint64{2}},
					{Name: "hi", Values: []uint64{3}},
				},
			},
		}
	}
	crosses := []coverage.Cross{
		{Name: "cross_ab", Of: []string{"cp_a", "cp_b"}},
	}

	BeforeEach(func() {
		tx = &fakeTx{a: 0, b: 2}
		var err error
		model, err = coverage.NewModel("fake", func() bool { return !tx.trap }, points(), crosses)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("gating", func() {
		It("should not move any counter for a rejected sample", func() {
			tx.trap = true
			tx.a = 1
			tx.b = 3
			model.Sample()

			rep := model.Report()
			for _, p := range rep.Points {
				Expect(p.Samples).To(BeZero())
				Expect(p.OutOfBin).To(BeZero())
				for _, b := range p.Bins {
					Expect(b.Count).To(BeZero())
				}
			}
			cross := findCross(rep, "cross_ab")
			Expect(cross.Samples).To(BeZero())
			Expect(cross.Combos).To(BeEmpty())
		})
	})

	Describe("exact-bin isolation", func() {
		It("should increment exactly the matching bin", func() {
			tx.a = 1
			model.Sample()

			p := findPoint(model.Report(), "cp_a")
			Expect(binCount(p, "one")).To(Equal(uint64(1)))
			Expect(binCount(p, "zero")).To(BeZero())
			Expect(p.Samples).To(Equal(uint64(1)))
			Expect(p.OutOfBin).To(BeZero())
		})
	})

	Describe("out-of-bin accounting", func() {
		It("should count the sample but no bin for an unmodeled value", func() {
			tx.a = 42
			model.Sample()

			p := findPoint(model.Report(), "cp_a")
			Expect(p.Samples).To(Equal(uint64(1)))
			Expect(p.OutOfBin).To(Equal(uint64(1)))
			Expect(binCount(p, "zero")).To(BeZero())
			Expect(binCount(p, "one")).To(BeZero())
		})

		It("should never fail on any value", func() {
			for _, v := range []uint64{0, 1, 7, ^uint64(0)} {
				tx.a = v
				Expect(model.Sample).NotTo(Panic())
			}
		})
	})

	Describe("cross consistency", func() {
		It("should record the combination iff every operand selected a bin", func() {
			tx.a = 1
			tx.b = 3
			model.Sample()

			cross := findCross(model.Report(), "cross_ab")
			Expect(cross.Combos).To(HaveLen(1))
			Expect(cross.Combos[0].Bins).To(Equal([]string{"one", "hi"}))
			Expect(cross.Combos[0].Count).To(Equal(uint64(1)))
			Expect(cross.Declared).To(Equal(uint64(4)))
		})

		It("should count a miss when one operand is out of bin", func() {
			tx.a = 42
			tx.b = 2
			model.Sample()

			cross := findCross(model.Report(), "cross_ab")
			Expect(cross.Combos).To(BeEmpty())
			Expect(cross.Samples).To(Equal(uint64(1)))
			Expect(cross.Missed).To(Equal(uint64(1)))
		})
	})

	Describe("replay idempotence of counting", func() {
		It("should increment the same bin by N for N identical samples", func() {
			tx.a = 1
			tx.b = 2
			for i := 0; i < 5; i++ {
				model.Sample()
			}

			rep := model.Report()
			Expect(binCount(findPoint(rep, "cp_a"), "one")).To(Equal(uint64(5)))
			cross := findCross(rep, "cross_ab")
			Expect(cross.Combos).To(HaveLen(1))
			Expect(cross.Combos[0].Count).To(Equal(uint64(5)))
		})
	})

	Describe("accounting mode", func() {
		It("should accept a mode before the first sample", func() {
			Expect(model.SetAccounting(coverage.AccountingMerged)).To(Succeed())
			Expect(model.Accounting()).To(Equal(coverage.AccountingMerged))
		})

		It("should reject a mode change after the first sample", func() {
			model.Sample()
			Expect(model.SetAccounting(coverage.AccountingMerged)).NotTo(Succeed())
		})

		It("should reject an unknown mode", func() {
			Expect(model.SetAccounting("typewise")).NotTo(Succeed())
		})
	})

	Describe("construction", func() {
		truth := func() bool { return true }

		It("should reject a value claimed by two bins of one point", func() {
			_, err := coverage.NewModel("bad", truth, []coverage.Point{
				{
					Name:   "cp",
					Source: func() uint64 { return 0 },
					Bins: []coverage.Bin{
						{Name: "first", Values: []uint64{1, 2}},
						{Name: "second", Values: []uint64{2, 3}},
					},
				},
			}, nil)
			Expect(err).To(HaveOccurred())
		})

		It("should reject a cross referencing an unknown point", func() {
			_, err := coverage.NewModel("bad", truth, points(),
				[]coverage.Cross{{Name: "x", Of: []string{"cp_a", "cp_missing"}}})
			Expect(err).To(HaveOccurred())
		})

		It("should reject a cross with fewer than two points", func() {
			_, err := coverage.NewModel("bad", truth, points(),
				[]coverage.Cross{{Name: "x", Of: []string{"cp_a"}}})
			Expect(err).To(HaveOccurred())
		})

		It("should reject a point without bins", func() {
			_, err := coverage.NewModel("bad", truth, []coverage.Point{
				{Name: "cp", Source: func() uint64 { return 0 }},
			}, nil)
			Expect(err).To(HaveOccurred())
		})

		It("should reject duplicate point names", func() {
			ps := points()
			ps[1].Name = ps[0].Name
			_, err := coverage.NewModel("bad", truth, ps, nil)
			Expect(err).To(HaveOccurred())
		})

		It("should reject a nil guard", func() {
			_, err := coverage.NewModel("bad", nil, points(), nil)
			Expect(err).To(HaveOccurred())
		})
	})
})
