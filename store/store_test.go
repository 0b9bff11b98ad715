package store

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"text2phenotype.com/morphtag/types"
)

func storeConfig(t *testing.T, backend string) types.StoreConfig {
	cfg := types.DefaultConfig().Store
	cfg.Backend = backend
	cfg.Dir = t.TempDir()
	prefix := t.Name() + "/"
	cfg.WordTable = prefix + "model"
	cfg.InflexionTable = prefix + "inflexion"
	cfg.LemmaTable = prefix + "lemma"
	cfg.TagTable = prefix + "tag"
	if backend == types.BackendSQLite {
		cfg.WordTable, cfg.InflexionTable, cfg.LemmaTable, cfg.TagTable = "model", "inflexion", "lemma", "tag"
	}
	return cfg
}

func backends(t *testing.T) []string {
	res := []string{types.BackendMemory, types.BackendSQLite}
	if _, ok := os.LookupEnv("MORPH_REDIS_HOST"); ok {
		res = append(res, types.BackendRedis)
	}
	return res
}

func TestTableLifecycle(t *testing.T) {
	for _, backend := range backends(t) {
		t.Run(backend, func(t *testing.T) {
			testTableLifecycle(t, storeConfig(t, backend))
		})
	}
}

func testTableLifecycle(t *testing.T, cfg types.StoreConfig) {
	words := types.WordModel{
		"cats": {"cat": {"s": {"(NOUN, Number=Plur)": 1.1}}},
		"cat":  {"cat": {"#": {"(NOUN, Number=Sing)": 0.7, "(VERB, _)": 3.4}}},
	}

	set, err := OpenSet(cfg, ModeCreate)
	require.NoError(t, err)
	require.NoError(t, set.Words.Update(words))
	require.NoError(t, set.Tags.Update(map[string]types.TagCosts{"START": {"(NOUN, Number=Sing)": 0.5}}))
	require.NoError(t, set.Close())

	set, err = OpenSet(cfg, ModeReadOnly)
	require.NoError(t, err)
	defer set.Close()

	got, ok, err := set.Words.Get("cats")
	require.NoError(t, err)
	require.True(t, ok)
	if diff := cmp.Diff(words["cats"], got); diff != "" {
		t.Errorf("word entry mismatch (-want +got):\n%s", diff)
	}

	_, ok, err = set.Words.Get("dogs")
	require.NoError(t, err)
	require.False(t, ok)

	has, err := set.Words.Has("cat")
	require.NoError(t, err)
	require.True(t, has)

	keys, err := set.Words.Keys()
	require.NoError(t, err)
	require.Equal(t, []string{"cat", "cats"}, keys)

	require.ErrorIs(t, set.Tags.Update(map[string]types.TagCosts{"END": {}}), ErrReadOnly)
}

func TestCreateReplacesContents(t *testing.T) {
	for _, backend := range backends(t) {
		t.Run(backend, func(t *testing.T) {
			cfg := storeConfig(t, backend)

			b, err := Open(cfg, cfg.InflexionTable, ModeCreate)
			require.NoError(t, err)
			table := NewTable[types.TagCosts](cfg.InflexionTable, b)
			require.NoError(t, table.Update(map[string]types.TagCosts{"s": {"(NOUN, _)": 1}, "#": {"(NOUN, _)": 2}}))
			require.NoError(t, table.Close())

			b, err = Open(cfg, cfg.InflexionTable, ModeCreate)
			require.NoError(t, err)
			table = NewTable[types.TagCosts](cfg.InflexionTable, b)
			require.NoError(t, table.Update(map[string]types.TagCosts{"#": {"(NOUN, _)": 2}}))
			keys, err := table.Keys()
			require.NoError(t, err)
			require.Equal(t, []string{"#"}, keys)
			require.NoError(t, table.Close())
		})
	}
}

func TestExportImport(t *testing.T) {
	cfg := storeConfig(t, types.BackendMemory)
	src, err := Open(cfg, cfg.TagTable, ModeCreate)
	require.NoError(t, err)
	table := NewTable[types.TagCosts](cfg.TagTable, src)
	want := map[string]types.TagCosts{
		"START":     {"(DET, _)": 1.2},
		"(DET, _)":  {"(NOUN, _)": 0.3, "END": 4.1},
		"(NOUN, _)": {"END": 0.9},
	}
	require.NoError(t, table.Update(want))
	data, err := table.Export()
	require.NoError(t, err)
	require.NoError(t, table.Close())

	dstCfg := storeConfig(t, types.BackendSQLite)
	dst, err := Open(dstCfg, dstCfg.TagTable, ModeCreate)
	require.NoError(t, err)
	imported := NewTable[types.TagCosts](dstCfg.TagTable, dst)
	require.NoError(t, imported.Import(data))
	got, err := imported.All()
	require.NoError(t, err)
	require.NoError(t, imported.Close())

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("imported table mismatch (-want +got):\n%s", diff)
	}
}

func TestMemoryWriterIsExclusive(t *testing.T) {
	cfg := storeConfig(t, types.BackendMemory)
	writer, err := Open(cfg, cfg.WordTable, ModeCreate)
	require.NoError(t, err)

	_, err = Open(cfg, cfg.WordTable, ModeReadOnly)
	require.ErrorIs(t, err, ErrLocked)

	require.NoError(t, writer.Close())
	reader, err := Open(cfg, cfg.WordTable, ModeReadOnly)
	require.NoError(t, err)
	require.NoError(t, reader.Close())
}

func TestOpenMissingSQLiteTableFails(t *testing.T) {
	cfg := storeConfig(t, types.BackendSQLite)
	_, err := Open(cfg, "absent", ModeReadOnly)
	require.Error(t, err)
}

func TestOpenUnknownBackend(t *testing.T) {
	cfg := storeConfig(t, "shelve")
	_, err := Open(cfg, "model", ModeReadOnly)
	require.Error(t, err)
}
