package types

// Multiword is attached to the record produced for a CoNLL-U range line.
// Head is the form of the first covered word, Part the form of the second,
// which is appended to the derived inflection.
type Multiword struct {
	Head string
	Part string
}

type Token struct {
	ID        string
	Form      string
	Lemma     string
	POS       string
	Feats     string
	Multiword *Multiword
}

func (token Token) IsMultiword() bool {
	return token.Multiword != nil
}

// Tag joins part of speech and morphology into the atomic label used as a key
// in every model table.
func (token Token) Tag() string {
	return FormatTag(token.POS, token.Feats)
}

func FormatTag(pos string, feats string) string {
	return "(" + pos + ", " + feats + ")"
}
