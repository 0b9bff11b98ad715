package corpus

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"text2phenotype.com/morphtag/types"
)

const sample = "# sent_id = 1\n" +
	"# text = Cats sleep\n" +
	"1\tCats\tcat\tNOUN\t_\tNumber=Plur\t2\tnsubj\t_\t_\n" +
	"2\tsleep\tsleep\tVERB\t_\tMood=Ind\t0\troot\t_\t_\n" +
	"\n" +
	"1-2\tdel\t_\t_\t_\t_\t_\t_\t_\t_\n" +
	"1\tde\tde\tADP\t_\t_\t_\t_\t_\t_\n" +
	"2\tel\tel\tDET\t_\tDefinite=Def\t_\t_\t_\t_\n" +
	"3\tMadrid\tMadrid\tPROPN\t_\t_\t_\t_\t_\t_\n" +
	"\n"

func TestReadCoNLLU(t *testing.T) {
	sentences, err := ReadCoNLLU(strings.NewReader(sample), types.DefaultConfig())
	require.NoError(t, err)
	require.Len(t, sentences, 2)

	first := sentences[0].Tokens
	require.Len(t, first, 2)
	require.Equal(t, types.Token{ID: "1", Form: "Cats", Lemma: "cat", POS: "NOUN", Feats: "Number=Plur"}, first[0])

	second := sentences[1].Tokens
	require.Len(t, second, 4)
	mw := second[0]
	require.True(t, mw.IsMultiword())
	require.Equal(t, "del", mw.Form)
	require.Equal(t, "de", mw.Lemma)
	require.Equal(t, "ADP", mw.POS)
	require.Equal(t, &types.Multiword{Head: "de", Part: "el"}, mw.Multiword)
	require.False(t, second[1].IsMultiword())
	require.Equal(t, "NOUN", second[3].POS, "PROPN is folded into NOUN")
}

func TestMorphologyTakesFirstFilledColumn(t *testing.T) {
	fields := strings.Split("1\tde\tde\tADP\t_\t_\t_\t_", "\t")
	require.Equal(t, "_", morphology(fields, "_"))

	fields = strings.Split("1\tcasa\tcasa\tNOUN\tNCFS000 \tGender=Fem", "\t")
	require.Equal(t, "NCFS000", morphology(fields, "_"))
}

func TestReadCoNLLURejectsShortLines(t *testing.T) {
	_, err := ReadCoNLLU(strings.NewReader("1\tcat\tcat\n"), types.DefaultConfig())
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	require.Equal(t, 1, parseErr.Line)
}

func TestReadCoNLLURejectsTruncatedRange(t *testing.T) {
	_, err := ReadCoNLLU(strings.NewReader("1-2\tdel\t_\t_\n1\tde\tde\tADP\n"), types.DefaultConfig())
	require.Error(t, err)
}
