// Package corpus reads annotated training corpora in CoNLL-U layout and the
// plain one-word-per-line input accepted by the tagger.
package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"text2phenotype.com/morphtag/types"
)

const (
	fieldSeparator = "\t"
	commentPrefix  = "#"
	rangeMarker    = "-"

	idColumn    = 0
	formColumn  = 1
	lemmaColumn = 2
	posColumn   = 3
	minColumns  = 4

	maxLineSize = 1024 * 1024
)

type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

func ReadCoNLLUFile(filePath string, cfg types.Config) ([]types.Sentence, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadCoNLLU(file, cfg)
}

// ReadCoNLLU splits the corpus into sentences of token records. A range line
// (ID "n-m") yields an extra record analysed with the following line and
// carrying the form of the line after that as its extra part; the covered
// lines are still emitted on their own.
func ReadCoNLLU(r io.Reader, cfg types.Config) ([]types.Sentence, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	var sentences []types.Sentence
	var current types.Sentence
	flush := func() {
		if len(current.Tokens) > 0 {
			sentences = append(sentences, current)
		}
		current = types.Sentence{}
	}

	for n, line := range lines {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if strings.HasPrefix(line, commentPrefix) {
			continue
		}
		fields := strings.Split(line, fieldSeparator)
		if len(fields) < minColumns {
			return nil, &ParseError{Line: n + 1, Msg: fmt.Sprintf("expected at least %d columns, got %d", minColumns, len(fields))}
		}
		if !strings.Contains(fields[idColumn], rangeMarker) {
			current.Tokens = append(current.Tokens, parseToken(fields, cfg))
			continue
		}

		token, err := parseRange(lines, n, fields, cfg)
		if err != nil {
			return nil, err
		}
		current.Tokens = append(current.Tokens, token)
	}
	flush()
	return sentences, nil
}

func parseToken(fields []string, cfg types.Config) types.Token {
	return types.Token{
		ID:    fields[idColumn],
		Form:  fields[formColumn],
		Lemma: fields[lemmaColumn],
		POS:   cfg.NormalizePOS(fields[posColumn]),
		Feats: morphology(fields, cfg.NoMorph),
	}
}

func parseRange(lines []string, n int, fields []string, cfg types.Config) (types.Token, error) {
	if n+2 >= len(lines) {
		return types.Token{}, &ParseError{Line: n + 1, Msg: "range is not followed by the words it covers"}
	}
	head := strings.Split(lines[n+1], fieldSeparator)
	if len(head) < minColumns {
		return types.Token{}, &ParseError{Line: n + 2, Msg: "malformed first word of range"}
	}
	part := strings.Fields(lines[n+2])
	if len(part) <= formColumn {
		return types.Token{}, &ParseError{Line: n + 3, Msg: "malformed second word of range"}
	}

	token := parseToken(head, cfg)
	token.ID = fields[idColumn]
	token.Form = fields[formColumn]
	token.Multiword = &types.Multiword{
		Head: head[formColumn],
		Part: part[formColumn],
	}
	return token, nil
}

// morphology returns the first non-placeholder column after the part of
// speech, or the placeholder itself.
func morphology(fields []string, placeholder string) string {
	for _, field := range fields[minColumns:] {
		if field != placeholder {
			return strings.TrimSpace(field)
		}
	}
	return placeholder
}

func readLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
