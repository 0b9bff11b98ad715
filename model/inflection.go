package model

import "strings"

// DeriveInflection strips the lemma from the front of word and returns what
// is left. A word that equals its lemma, or does not start with it, has the
// zero inflection.
func DeriveInflection(word string, lemma string, zero string) string {
	if lemma == "" || len(lemma) >= len(word) || !strings.HasPrefix(word, lemma) {
		return zero
	}
	return word[len(lemma):]
}

// appendPart adds the second word of a multiword range to the inflection of
// the first one.
func appendPart(inflection string, part string, zero string) string {
	if inflection == zero {
		return part
	}
	return inflection + part
}
