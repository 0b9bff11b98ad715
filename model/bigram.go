package model

import (
	"text2phenotype.com/morphtag/types"
)

const (
	StartTag = "START"
	EndTag   = "END"
)

// BigramBuilder counts which tag follows which, with START and END markers
// around every sentence.
type BigramBuilder struct {
	cfg    types.Config
	counts map[string]types.TagCosts
	nTags  int
}

func NewBigramBuilder(cfg types.Config) *BigramBuilder {
	return &BigramBuilder{
		cfg:    cfg,
		counts: make(map[string]types.TagCosts),
	}
}

func (b *BigramBuilder) AddSentence(sent types.Sentence) {
	tags := b.sequence(sent)
	for i, tag := range tags[:len(tags)-1] {
		b.nTags++
		next := tags[i+1]
		if next == StartTag {
			continue
		}
		increment(b.counts, tag, next, 1)
	}
}

// sequence lists the tags of a sentence between START and END. Records with
// the excluded part of speech keep their position as the excluded tag.
func (b *BigramBuilder) sequence(sent types.Sentence) []string {
	tags := make([]string, 0, len(sent.Tokens)+2)
	tags = append(tags, StartTag)
	for _, token := range sent.Tokens {
		switch {
		case token.IsMultiword():
			continue
		case token.Lemma == b.cfg.UnknownLemma:
			continue
		case token.POS == b.cfg.NoMorph:
			continue
		case token.POS == b.cfg.ExcludedPOS:
			tags = append(tags, b.cfg.ExcludedTag)
		default:
			tags = append(tags, token.Tag())
		}
	}
	return append(tags, EndTag)
}

func (b *BigramBuilder) TagCount() int {
	return b.nTags
}

func (b *BigramBuilder) Model() types.TagBigramModel {
	res := make(types.TagBigramModel, len(b.counts))
	for tag, next := range b.counts {
		res[tag] = tagCosts(next, b.nTags)
	}
	return res
}
