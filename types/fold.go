package types

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Fold lower-cases a surface word. Every word key in the model is folded.
func Fold(word string) string {
	return cases.Lower(language.Und).String(word)
}
