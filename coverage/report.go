package coverage

import (
	"fmt"
	"sort"
	"strings"
)

// BinCount is one bin's accumulated hit count.
type BinCount struct {
	Name   string `json:"name"`
	Weight int    `json:"weight"`
	Count  uint64 `json:"count"`
}

// PointReport is the post-run view of one coverage point.
type PointReport struct {
	Name     string     `json:"name"`
	Weight   int        `json:"weight"`
	Bins     []BinCount `json:"bins"`
	Samples  uint64     `json:"samples"`
	OutOfBin uint64     `json:"out_of_bin"`
	Score    float64    `json:"score"`
}

// ComboCount is one realized cross combination, identified by the bin names
// of the operand points in declaration order.
type ComboCount struct {
	Bins  []string `json:"bins"`
	Count uint64   `json:"count"`
}

// CrossReport is the post-run view of one cross point. Declared is the full
// Cartesian product size of the operand points' bins; Hit is how many of
// those combinations were realized at least once.
type CrossReport struct {
	Name     string       `json:"name"`
	Weight   int          `json:"weight"`
	Of       []string     `json:"of"`
	Combos   []ComboCount `json:"combos"`
	Declared uint64       `json:"declared"`
	Hit      uint64       `json:"hit"`
	Samples  uint64       `json:"samples"`
	Missed   uint64       `json:"missed"`
	Score    float64      `json:"score"`
}

// ModelReport is the post-run view of one model: every point, every cross and
// the weighted aggregate score.
type ModelReport struct {
	Name       string        `json:"name"`
	Accounting Accounting    `json:"accounting"`
	Points     []PointReport `json:"points"`
	Crosses    []CrossReport `json:"crosses"`
	Score      float64       `json:"score"`
}

// Report snapshots the model's counters. The percentage-covered score of a
// point is (weights of bins hit at least once) over (weights of all declared
// bins); a cross scores realized over declared combinations; the model score
// is the point and cross scores averaged by their weights.
func (m *Model) Report() ModelReport {
	rep := ModelReport{
		Name:       m.name,
		Accounting: m.accounting,
	}

	var weighted, totalWeight float64
	for _, p := range m.points {
		pr := p.report()
		rep.Points = append(rep.Points, pr)
		weighted += pr.Score * float64(pr.Weight)
		totalWeight += float64(pr.Weight)
	}
	for _, c := range m.crosses {
		cr := c.report()
		rep.Crosses = append(rep.Crosses, cr)
		weighted += cr.Score * float64(cr.Weight)
		totalWeight += float64(cr.Weight)
	}
	if totalWeight > 0 {
		rep.Score = weighted / totalWeight
	}
	return rep
}

func (p *pointState) report() PointReport {
	pr := PointReport{
		Name:     p.def.Name,
		Weight:   p.def.Weight,
		Samples:  p.samples,
		OutOfBin: p.outOfBin,
	}
	var hitWeight, totalWeight float64
	for i, b := range p.def.Bins {
		pr.Bins = append(pr.Bins, BinCount{Name: b.Name, Weight: b.Weight, Count: p.hits[i]})
		totalWeight += float64(b.Weight)
		if p.hits[i] > 0 {
			hitWeight += float64(b.Weight)
		}
	}
	if totalWeight > 0 {
		pr.Score = hitWeight / totalWeight
	}
	return pr
}

func (c *crossState) report() CrossReport {
	cr := CrossReport{
		Name:    c.def.Name,
		Weight:  c.def.Weight,
		Of:      append([]string(nil), c.def.Of...),
		Samples: c.samples,
		Missed:  c.missed,
	}

	cr.Declared = 1
	for _, ps := range c.of {
		cr.Declared *= uint64(len(ps.def.Bins))
	}

	keys := make([]string, 0, len(c.hits))
	for k := range c.hits {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		cr.Combos = append(cr.Combos, ComboCount{
			Bins:  strings.Split(k, comboSep),
			Count: c.hits[k],
		})
	}
	cr.Hit = uint64(len(cr.Combos))
	if cr.Declared > 0 {
		cr.Score = float64(cr.Hit) / float64(cr.Declared)
	}
	return cr
}

// MergeReports adds the counters of two reports of the same model shape, the
// consumer of merged accounting. Shapes must match exactly: same points, bins
// and crosses in the same order. Scores are recomputed from the merged
// counters.
func MergeReports(a, b ModelReport) (ModelReport, error) {
	if a.Name != b.Name {
		return ModelReport{}, fmt.Errorf("cannot merge reports of different models: %s vs %s", a.Name, b.Name)
	}
	if len(a.Points) != len(b.Points) || len(a.Crosses) != len(b.Crosses) {
		return ModelReport{}, fmt.Errorf("model %s: report shapes differ", a.Name)
	}

	out := ModelReport{Name: a.Name, Accounting: a.Accounting}

	var weighted, totalWeight float64
	for i := range a.Points {
		pa, pb := a.Points[i], b.Points[i]
		if pa.Name != pb.Name || len(pa.Bins) != len(pb.Bins) {
			return ModelReport{}, fmt.Errorf("model %s: point %s shape differs", a.Name, pa.Name)
		}
		pr := PointReport{
			Name:     pa.Name,
			Weight:   pa.Weight,
			Samples:  pa.Samples + pb.Samples,
			OutOfBin: pa.OutOfBin + pb.OutOfBin,
		}
		var hitWeight, binWeight float64
		for j := range pa.Bins {
			ba, bb := pa.Bins[j], pb.Bins[j]
			if ba.Name != bb.Name {
				return ModelReport{}, fmt.Errorf("model %s: point %s bin %s vs %s", a.Name, pa.Name, ba.Name, bb.Name)
			}
			merged := BinCount{Name: ba.Name, Weight: ba.Weight, Count: ba.Count + bb.Count}
			pr.Bins = append(pr.Bins, merged)
			binWeight += float64(merged.Weight)
			if merged.Count > 0 {
				hitWeight += float64(merged.Weight)
			}
		}
		if binWeight > 0 {
			pr.Score = hitWeight / binWeight
		}
		out.Points = append(out.Points, pr)
		weighted += pr.Score * float64(pr.Weight)
		totalWeight += float64(pr.Weight)
	}

	for i := range a.Crosses {
		ca, cb := a.Crosses[i], b.Crosses[i]
		if ca.Name != cb.Name || ca.Declared != cb.Declared {
			return ModelReport{}, fmt.Errorf("model %s: cross %s shape differs", a.Name, ca.Name)
		}
		cr := CrossReport{
			Name:     ca.Name,
			Weight:   ca.Weight,
			Of:       append([]string(nil), ca.Of...),
			Declared: ca.Declared,
			Samples:  ca.Samples + cb.Samples,
			Missed:   ca.Missed + cb.Missed,
		}
		counts := make(map[string]uint64)
		for _, combo := range ca.Combos {
			counts[strings.Join(combo.Bins, comboSep)] += combo.Count
		}
		for _, combo := range cb.Combos {
			counts[strings.Join(combo.Bins, comboSep)] += combo.Count
		}
		keys := make([]string, 0, len(counts))
		for k := range counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			cr.Combos = append(cr.Combos, ComboCount{Bins: strings.Split(k, comboSep), Count: counts[k]})
		}
		cr.Hit = uint64(len(cr.Combos))
		if cr.Declared > 0 {
			cr.Score = float64(cr.Hit) / float64(cr.Declared)
		}
		out.Crosses = append(out.Crosses, cr)
		weighted += cr.Score * float64(cr.Weight)
		totalWeight += float64(cr.Weight)
	}

	if totalWeight > 0 {
		out.Score = weighted / totalWeight
	}
	return out, nil
}
