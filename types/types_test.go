package types

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatTag(t *testing.T) {
	token := Token{POS: "NOUN", Feats: "Case=Gen|Number=Sing"}
	require.Equal(t, "(NOUN, Case=Gen|Number=Sing)", token.Tag())
}

func TestFold(t *testing.T) {
	require.Equal(t, "cats", Fold("CaTs"))
	require.Equal(t, "ёлка", Fold("Ёлка"))
}

func TestCandidatesAreSorted(t *testing.T) {
	set := CandidateSet{
		"run": {"ning": {"(VERB, _)": 2, "(NOUN, _)": 3}},
		"r":   {"unning": {"(ADJ, _)": 7}},
	}
	got := set.Candidates()
	require.Equal(t, []Candidate{
		{Lemma: "r", Inflection: "unning", Tag: "(ADJ, _)", Cost: 7},
		{Lemma: "run", Inflection: "ning", Tag: "(NOUN, _)", Cost: 3},
		{Lemma: "run", Inflection: "ning", Tag: "(VERB, _)", Cost: 2},
	}, got)
	require.Equal(t, 3, set.Len())
}

func TestSentenceWordsSkipsRanges(t *testing.T) {
	sent := Sentence{Tokens: []Token{
		{ID: "1-2", Form: "del", Multiword: &Multiword{Head: "de", Part: "el"}},
		{ID: "1", Form: "de"},
		{ID: "2", Form: "el"},
	}}
	require.Equal(t, []string{"de", "el"}, sent.Words())
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.yaml")
	data := "unknown_transition_cost: 12.5\nstore:\n  backend: memory\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 12.5, cfg.UnknownTransitionCost)
	require.Equal(t, BackendMemory, cfg.Store.Backend)
	require.Equal(t, "#", cfg.ZeroInflection)
	require.Equal(t, "NOUN", cfg.NormalizePOS("PROPN"))
	require.Equal(t, "VERB", cfg.NormalizePOS("VERB"))
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  backend: shelve\n"), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
}
