package coverage_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/julianmb-g/coralnpu/coverage"
)

var _ = Describe("Report", func() {
	var (
		tx *fakeTx
	)

	build := func() *coverage.Model {
		m, err := coverage.NewModel("scored", func() bool { return !tx.trap },
			[]coverage.Point{
				{
					Name:   "cp_a",
					Source: func() uint64 { return tx.a },
					Weight: 3,
					Bins: []coverage.Bin{
						{Name: "zero", Values: []uint64{0}},
						{Name: "one", Values: []uint64{1}, Weight: 3},
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
			},
			[]coverage.Cross{{Name: "cross_ab", Of: []string{"cp_a", "cp_b"}}},
		)
		Expect(err).NotTo(HaveOccurred())
		return m
	}

	BeforeEach(func() {
		tx = &fakeTx{}
	})

	Describe("scoring", func() {
		It("should weight bin hits inside a point", func() {
			model := build()
			tx.a = 1
			tx.b = 7 // out of bin
			model.Sample()

			rep := model.Report()
			// one (weight 3) hit, zero (weight 1) not: 3/4
			Expect(findPoint(rep, "cp_a").Score).To(BeNumerically("~", 0.75, 1e-9))
			Expect(findPoint(rep, "cp_b").Score).To(BeZero())
		})

		It("should score a cross as realized over declared combinations", func() {
			model := build()
			tx.a = 0
			tx.b = 2
			model.Sample()
			tx.a = 1
			model.Sample()

			cross := findCross(model.Report(), "cross_ab")
			Expect(cross.Hit).To(Equal(uint64(2)))
			Expect(cross.Declared).To(Equal(uint64(4)))
			Expect(cross.Score).To(BeNumerically("~", 0.5, 1e-9))
		})

		It("should aggregate the model score by point and cross weights", func() {
			model := build()
			tx.a = 0
			tx.b = 2
			model.Sample()

			rep := model.Report()
			// cp_a 1/4 with weight 3, cp_b 1/2 with weight 1,
			// cross 1/4 with weight 1: (0.75+0.5+0.25)/5
			Expect(rep.Score).To(BeNumerically("~", 0.3, 1e-9))
		})

		It("should report 100% when every bin and combination is hit", func() {
			model := build()
			for _, a := range []uint64{0, 1} {
				for _, b := range []uint64{2, 3} {
					tx.a = a
					tx.b = b
					model.Sample()
				}
			}
			Expect(model.Report().Score).To(BeNumerically("~", 1.0, 1e-9))
		})
	})

	Describe("merging", func() {
		It("should add counters pointwise across two reports", func() {
			first := build()
			tx.a = 0
			tx.b = 2
			first.Sample()

			second := build()
			tx.a = 1
			tx.b = 2
			second.Sample()
			second.Sample()

			merged, err := coverage.MergeReports(first.Report(), second.Report())
			Expect(err).NotTo(HaveOccurred())

			pa := findPoint(merged, "cp_a")
			Expect(binCount(pa, "zero")).To(Equal(uint64(1)))
			Expect(binCount(pa, "one")).To(Equal(uint64(2)))
			Expect(pa.Samples).To(Equal(uint64(3)))
			Expect(pa.Score).To(BeNumerically("~", 1.0, 1e-9))

			cross := findCross(merged, "cross_ab")
			Expect(cross.Hit).To(Equal(uint64(2)))
			Expect(cross.Samples).To(Equal(uint64(3)))
		})

		It("should reject reports of different models", func() {
			model := build()
			other, err := coverage.NewModel("other", func() bool { return true },
				[]coverage.Point{{
					Name:   "cp",
					Source: func() uint64 { return 0 },
					Bins:   []coverage.Bin{{Name: "zero", Values: []uint64{0}}},
				}}, nil)
			Expect(err).NotTo(HaveOccurred())

			_, err = coverage.MergeReports(model.Report(), other.Report())
			Expect(err).To(HaveOccurred())
		})
	})
})
