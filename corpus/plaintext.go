package corpus

import (
	"bufio"
	"io"
	"os"
	"strings"
)

const placeholder = "_"

func ReadPlainTextFile(filePath string) ([][]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadPlainText(file)
}

// ReadPlainText takes the first token of each line that is not "_" as the
// word; a blank line ends the sentence.
func ReadPlainText(r io.Reader) ([][]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	var sentences [][]string
	var current []string
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			if len(current) > 0 {
				sentences = append(sentences, current)
			}
			current = nil
			continue
		}
		for _, field := range fields {
			if field != placeholder {
				current = append(current, field)
				break
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(current) > 0 {
		sentences = append(sentences, current)
	}
	return sentences, nil
}
