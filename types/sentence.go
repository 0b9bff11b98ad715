package types

type Sentence struct {
	Tokens []Token
}

// Words returns the surface forms of the sentence, skipping multiword range
// records so that every covered word appears once.
func (sent Sentence) Words() []string {
	words := make([]string, 0, len(sent.Tokens))
	for _, token := range sent.Tokens {
		if token.IsMultiword() {
			continue
		}
		words = append(words, token.Form)
	}
	return words
}
