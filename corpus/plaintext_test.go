package corpus

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadPlainText(t *testing.T) {
	input := "1 The\n_ cats\n  sleep  extra\n\n\nHello\n"
	sentences, err := ReadPlainText(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, [][]string{{"1", "cats", "sleep"}, {"Hello"}}, sentences)
}

func TestReadPlainTextSkipsPlaceholderOnlyLines(t *testing.T) {
	sentences, err := ReadPlainText(strings.NewReader("_ _\nword\n"))
	require.NoError(t, err)
	require.Equal(t, [][]string{{"word"}}, sentences)
}
