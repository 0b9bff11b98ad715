// Package model counts an annotated corpus into the cost tables used by the
// tagger.
package model

import (
	"text2phenotype.com/morphtag/types"
)

// VocabTables is the cost form of what a VocabBuilder counted.
type VocabTables struct {
	Words       types.WordModel
	Inflections types.InflectionModel
	Lemmas      types.LemmaModel
	Total       int
	LemmaTotal  int
}

// VocabBuilder accumulates weighted tag counts per word, inflection and
// lemma. It is not safe for concurrent use.
type VocabBuilder struct {
	cfg         types.Config
	words       types.WordModel
	inflections map[string]types.TagCosts
	lemmas      map[string]types.TagCosts
	total       int
	lemmaTotal  int
	skipped     int
}

func NewVocabBuilder(cfg types.Config) *VocabBuilder {
	return &VocabBuilder{
		cfg:         cfg,
		words:       make(types.WordModel),
		inflections: make(map[string]types.TagCosts),
		lemmas:      make(map[string]types.TagCosts),
	}
}

// Add counts one record. Records with the excluded part of speech or the
// unknown lemma are dropped and reported as false.
func (b *VocabBuilder) Add(token types.Token) bool {
	if token.POS == b.cfg.ExcludedPOS || token.Lemma == b.cfg.UnknownLemma {
		b.skipped++
		return false
	}

	word := types.Fold(token.Form)
	inflection := b.inflection(word, token)
	tag := token.Tag()

	weight := 1.0
	if token.Feats == b.cfg.NoMorph {
		weight = b.cfg.BareTagWeight
	}

	analyses, ok := b.words[word]
	if !ok {
		analyses = make(types.LemmaAnalyses)
		b.words[word] = analyses
	}
	inflections, ok := analyses[token.Lemma]
	if !ok {
		inflections = make(types.InflectionCosts)
		analyses[token.Lemma] = inflections
	}
	increment(inflections, inflection, tag, weight)
	increment(b.inflections, inflection, tag, weight)
	increment(b.lemmas, token.Lemma, tag, weight)

	b.total++
	b.lemmaTotal++
	return true
}

func (b *VocabBuilder) inflection(word string, token types.Token) string {
	zero := b.cfg.ZeroInflection
	if !token.IsMultiword() {
		return DeriveInflection(word, token.Lemma, zero)
	}
	head := types.Fold(token.Multiword.Head)
	return appendPart(DeriveInflection(head, token.Lemma, zero), token.Multiword.Part, zero)
}

func (b *VocabBuilder) Counted() int {
	return b.total
}

func (b *VocabBuilder) Skipped() int {
	return b.skipped
}

// Tables converts the counts into costs. The builder keeps its counts, so
// calling Tables twice gives equal results.
func (b *VocabBuilder) Tables() VocabTables {
	words := make(types.WordModel, len(b.words))
	for word, analyses := range b.words {
		lemmas := make(types.LemmaAnalyses, len(analyses))
		for lemma, inflections := range analyses {
			costs := make(types.InflectionCosts, len(inflections))
			for infl, tags := range inflections {
				costs[infl] = tagCosts(tags, b.total)
			}
			lemmas[lemma] = costs
		}
		words[word] = lemmas
	}

	inflections := make(types.InflectionModel, len(b.inflections)+1)
	for infl, tags := range b.inflections {
		inflections[infl] = tagCosts(tags, b.total)
	}
	if _, ok := inflections[b.cfg.ZeroInflection]; !ok {
		inflections[b.cfg.ZeroInflection] = types.TagCosts{}
	}

	lemmas := make(types.LemmaModel, len(b.lemmas))
	for lemma, tags := range b.lemmas {
		lemmas[lemma] = tagCosts(tags, b.lemmaTotal)
	}

	return VocabTables{
		Words:       words,
		Inflections: inflections,
		Lemmas:      lemmas,
		Total:       b.total,
		LemmaTotal:  b.lemmaTotal,
	}
}
