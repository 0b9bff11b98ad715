package tagger

import (
	"errors"
	"fmt"

	"text2phenotype.com/morphtag/types"
)

var (
	ErrNoZeroInflection = errors.New("tagger: inflexion table has no zero inflection entry")
	ErrMissingEntry     = errors.New("tagger: word table entry vanished after containment check")
)

type Lookup struct {
	words       WordSource
	inflections CostSource
	zero        string
}

func NewLookup(models Models, zeroInflection string) *Lookup {
	return &Lookup{
		words:       models.Words,
		inflections: models.Inflections,
		zero:        zeroInflection,
	}
}

// Candidates returns every analysis the model allows for word. A known word
// gets its recorded analyses. An unknown word is taken as a bare lemma with
// the zero inflection, and additionally every split whose ending is a known
// inflection contributes the prefix as a hypothetical lemma.
func (l *Lookup) Candidates(word string) (types.CandidateSet, error) {
	word = types.Fold(word)

	known, err := l.words.Has(word)
	if err != nil {
		return nil, fmt.Errorf("word table lookup %q: %w", word, err)
	}
	if known {
		analyses, ok, err := l.words.Get(word)
		if err != nil {
			return nil, fmt.Errorf("word table lookup %q: %w", word, err)
		}
		if !ok {
			return nil, fmt.Errorf("%q: %w", word, ErrMissingEntry)
		}
		return analyses, nil
	}

	zeroTags, ok, err := l.inflections.Get(l.zero)
	if err != nil {
		return nil, fmt.Errorf("inflexion table lookup %q: %w", l.zero, err)
	}
	if !ok {
		return nil, ErrNoZeroInflection
	}
	set := types.CandidateSet{}
	set.Add(word, l.zero, zeroTags)

	for i := range word {
		if i == 0 {
			continue
		}
		ending := word[i:]
		tags, ok, err := l.inflections.Get(ending)
		if err != nil {
			return nil, fmt.Errorf("inflexion table lookup %q: %w", ending, err)
		}
		if ok {
			set.Add(word[:i], ending, tags)
		}
	}
	return set, nil
}
