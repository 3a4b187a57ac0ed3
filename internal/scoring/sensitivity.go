package scoring

import (
	"sort"

	"github.com/MikeSquared-Agency/Locus/internal/store"
)

// Sensitivity verdicts.
const (
	VerdictStable    = "stable"
	VerdictModerate  = "moderate"
	VerdictSensitive = "sensitive"
)

// SensitivityOptions controls which weights are perturbed and how much of
// the ranking is compared.
type SensitivityOptions struct {
	TopCriteria int     `yaml:"top_criteria" json:"top_criteria"`
	Delta       float64 `yaml:"delta" json:"delta"`
	TopN        int     `yaml:"top_n" json:"top_n"`
}

// DefaultSensitivityOptions varies the three heaviest criteria by ±10% and
// compares the top five.
func DefaultSensitivityOptions() SensitivityOptions {
	return SensitivityOptions{TopCriteria: 3, Delta: 0.10, TopN: 5}
}

// SensitivityReport compares the base top-N against the rankings obtained
// with the perturbed weights.
type SensitivityReport struct {
	Perturbed    []string `json:"perturbed"`
	Delta        float64  `json:"delta"`
	TopN         int      `json:"top_n"`
	BaseTop      []string `json:"base_top"`
	PlusTop      []string `json:"plus_top"`
	MinusTop     []string `json:"minus_top"`
	OverlapPlus  int      `json:"overlap_plus"`
	OverlapMinus int      `json:"overlap_minus"`
	Verdict      string   `json:"verdict"`
}

// PerturbWeights multiplies the targeted weights by (1+delta) and
// renormalizes the whole set.
func PerturbWeights(w Weights, targets []string, delta float64) Weights {
	hit := make(map[string]bool, len(targets))
	for _, t := range targets {
		hit[t] = true
	}
	out := make(Weights, len(w))
	for id, v := range w {
		if hit[id] {
			v *= 1 + delta
		}
		out[id] = v
	}
	return out.Normalized()
}

// TopCriteria returns the k heaviest criteria, ties broken by ID.
func TopCriteria(w Weights, k int) []string {
	ids := w.IDs()
	sort.SliceStable(ids, func(i, j int) bool { return w[ids[i]] > w[ids[j]] })
	if k < len(ids) {
		ids = ids[:k]
	}
	return ids
}

// Sensitivity re-scores normalized candidates with the top criteria pushed
// up and down by delta and reports how much of the top-N survives. The
// verdict is stable when both overlaps reach 4/5 of TopN, moderate at 3/5.
// With fewer than TopN candidates the thresholds scale to the table size.
func Sensitivity(norm []store.Candidate, w Weights, opts SensitivityOptions) (*SensitivityReport, error) {
	def := DefaultSensitivityOptions()
	if opts.TopCriteria <= 0 {
		opts.TopCriteria = def.TopCriteria
	}
	if opts.TopN <= 0 {
		opts.TopN = def.TopN
	}
	if opts.Delta == 0 {
		opts.Delta = def.Delta
	}

	targets := TopCriteria(w, opts.TopCriteria)
	base, err := Score(norm, w)
	if err != nil {
		return nil, err
	}
	plus, err := Score(norm, PerturbWeights(w, targets, opts.Delta))
	if err != nil {
		return nil, err
	}
	minus, err := Score(norm, PerturbWeights(w, targets, -opts.Delta))
	if err != nil {
		return nil, err
	}

	r := &SensitivityReport{
		Perturbed: targets,
		Delta:     opts.Delta,
		TopN:      opts.TopN,
		BaseTop:   topCodes(base, opts.TopN),
		PlusTop:   topCodes(plus, opts.TopN),
		MinusTop:  topCodes(minus, opts.TopN),
	}
	r.OverlapPlus = overlap(r.BaseTop, r.PlusTop)
	r.OverlapMinus = overlap(r.BaseTop, r.MinusTop)
	r.Verdict = verdict(r.OverlapPlus, r.OverlapMinus, len(r.BaseTop))
	return r, nil
}

func verdict(plus, minus, topN int) string {
	stable := float64(topN) * 4 / 5
	moderate := float64(topN) * 3 / 5
	switch {
	case float64(plus) >= stable && float64(minus) >= stable:
		return VerdictStable
	case float64(plus) >= moderate && float64(minus) >= moderate:
		return VerdictModerate
	default:
		return VerdictSensitive
	}
}

func topCodes(ranked []store.Candidate, n int) []string {
	if n > len(ranked) {
		n = len(ranked)
	}
	codes := make([]string, n)
	for i := 0; i < n; i++ {
		codes[i] = ranked[i].Code
	}
	return codes
}

func overlap(a, b []string) int {
	in := make(map[string]bool, len(a))
	for _, c := range a {
		in[c] = true
	}
	n := 0
	for _, c := range b {
		if in[c] {
			n++
		}
	}
	return n
}
