package tagger

import (
	"errors"
	"fmt"

	"text2phenotype.com/morphtag/types"
)

var ErrEmptyCandidates = errors.New("tagger: word has no candidate analyses")

// Decoder picks one analysis per word from the candidate sets of a sentence.
type Decoder interface {
	Decode(sets []types.CandidateSet) ([]types.Analysis, []types.PlainAnalysis, error)
}

// GreedyDecoder chooses the first two words jointly and every later word
// from the tag chosen before it. It looks one word back and never revisits
// a choice.
type GreedyDecoder struct {
	bigrams CostSource
	penalty types.Cost
}

func NewGreedyDecoder(bigrams CostSource, unknownTransitionCost types.Cost) *GreedyDecoder {
	return &GreedyDecoder{bigrams: bigrams, penalty: unknownTransitionCost}
}

func (d *GreedyDecoder) Decode(sets []types.CandidateSet) ([]types.Analysis, []types.PlainAnalysis, error) {
	words := make([][]types.Candidate, len(sets))
	for i, set := range sets {
		candidates := set.Candidates()
		if len(candidates) == 0 {
			return nil, nil, fmt.Errorf("word %d: %w", i, ErrEmptyCandidates)
		}
		words[i] = candidates
	}

	var out []types.Analysis
	switch len(words) {
	case 0:
	case 1:
		out = append(out, cheapest(words[0]))
	default:
		first, second, err := d.firstPair(words[0], words[1])
		if err != nil {
			return nil, nil, err
		}
		out = append(out, first, second)
		for _, candidates := range words[2:] {
			next, err := d.follow(out[len(out)-1], candidates)
			if err != nil {
				return nil, nil, err
			}
			out = append(out, next)
		}
	}

	plain := make([]types.PlainAnalysis, len(out))
	for i, a := range out {
		plain[i] = a.Plain()
	}
	return out, plain, nil
}

// firstPair scores every combination of the first two words by the
// transition cost minus the emission cost of the first word.
func (d *GreedyDecoder) firstPair(first, second []types.Candidate) (types.Analysis, types.Analysis, error) {
	var best types.Cost
	var a, b types.Candidate
	found := false
	for _, c1 := range first {
		row, _, err := d.bigrams.Get(c1.Tag)
		if err != nil {
			return types.Analysis{}, types.Analysis{}, fmt.Errorf("tag table lookup %q: %w", c1.Tag, err)
		}
		for _, c2 := range second {
			score := d.transition(row, c2.Tag) - c1.Cost
			if !found || score < best {
				best, a, b, found = score, c1, c2, true
			}
		}
	}
	return analysis(a), analysis(b), nil
}

// follow picks the analysis of the next word given the previous choice. A
// previous tag never seen as left context leaves only the emission costs.
func (d *GreedyDecoder) follow(prev types.Analysis, candidates []types.Candidate) (types.Analysis, error) {
	row, ok, err := d.bigrams.Get(prev.Tag)
	if err != nil {
		return types.Analysis{}, fmt.Errorf("tag table lookup %q: %w", prev.Tag, err)
	}
	if !ok {
		return cheapest(candidates), nil
	}

	var best types.Cost
	var choice types.Candidate
	for i, c := range candidates {
		score := d.transition(row, c.Tag) - prev.Score
		if i == 0 || score < best {
			best, choice = score, c
		}
	}
	return analysis(choice), nil
}

func (d *GreedyDecoder) transition(row types.TagCosts, next string) types.Cost {
	if cost, ok := row[next]; ok {
		return cost
	}
	return d.penalty
}

func cheapest(candidates []types.Candidate) types.Analysis {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Cost < best.Cost {
			best = c
		}
	}
	return analysis(best)
}

func analysis(c types.Candidate) types.Analysis {
	return types.Analysis{Lemma: c.Lemma, Tag: c.Tag, Score: c.Cost}
}
