package types

import "sort"

// Cost approximates -ln(P). Lower is better and costs add up where
// probabilities would multiply.
type Cost = float64

// TagCosts maps a tag to its cost.
type TagCosts map[string]Cost

// InflectionCosts maps an inflection to its tags.
type InflectionCosts map[string]TagCosts

// LemmaAnalyses maps a lemma to its inflections. It is the value type of the
// word table and the shape of a candidate set.
type LemmaAnalyses map[string]InflectionCosts

// WordModel: word -> lemma -> inflection -> tag -> cost.
type WordModel map[string]LemmaAnalyses

// InflectionModel: inflection -> tag -> cost.
type InflectionModel map[string]TagCosts

// LemmaModel: lemma -> tag -> cost.
type LemmaModel map[string]TagCosts

// TagBigramModel: tag -> following tag -> cost.
type TagBigramModel map[string]TagCosts

// CandidateSet holds every analysis considered for one word: lemma (or a
// hypothesised lemma) -> inflection -> tag -> cost.
type CandidateSet = LemmaAnalyses

type Candidate struct {
	Lemma      string
	Inflection string
	Tag        string
	Cost       Cost
}

// Candidates flattens the set ordered by lemma, inflection and tag so that
// scans over it are reproducible.
func (analyses LemmaAnalyses) Candidates() []Candidate {
	var res []Candidate
	for _, lemma := range SortedKeys(analyses) {
		inflections := analyses[lemma]
		for _, infl := range SortedKeys(inflections) {
			tags := inflections[infl]
			for _, tag := range SortedKeys(tags) {
				res = append(res, Candidate{
					Lemma:      lemma,
					Inflection: infl,
					Tag:        tag,
					Cost:       tags[tag],
				})
			}
		}
	}
	return res
}

// Add sets the cost of one analysis, creating intermediate levels.
func (analyses LemmaAnalyses) Add(lemma string, inflection string, tags TagCosts) {
	inflections, ok := analyses[lemma]
	if !ok {
		inflections = make(InflectionCosts)
		analyses[lemma] = inflections
	}
	inflections[inflection] = tags
}

func (analyses LemmaAnalyses) Len() int {
	n := 0
	for _, inflections := range analyses {
		for _, tags := range inflections {
			n += len(tags)
		}
	}
	return n
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
