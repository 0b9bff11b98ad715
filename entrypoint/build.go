package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"text2phenotype.com/morphtag/corpus"
	"text2phenotype.com/morphtag/model"
	"text2phenotype.com/morphtag/store"
)

func (a *app) buildCommand() *cobra.Command {
	var verify bool

	cmd := &cobra.Command{
		Use:   "build <corpus.conllu>",
		Short: "Build the model tables from an annotated corpus",
		Args:  cobra.ExactArgs(1),
		Example: `  morphtag build train.conllu
  morphtag build train.conllu --config model.yaml --verify`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sentences, err := corpus.ReadCoNLLUFile(args[0], a.model)
			if err != nil {
				return err
			}
			tables := model.Build(sentences, a.model)
			fingerprint := model.Fingerprint(tables)
			if verify {
				again := model.Fingerprint(model.Build(sentences, a.model))
				if again != fingerprint {
					return fmt.Errorf("two builds of %s differ: %x != %x", args[0], fingerprint, again)
				}
			}

			set, err := store.OpenSet(a.model.Store, store.ModeCreate)
			if err != nil {
				return err
			}
			if err := model.Save(tables, set); err != nil {
				_ = set.Close()
				return err
			}
			if err := set.Close(); err != nil {
				return err
			}
			a.mainLogger.Info().
				Str("corpus", args[0]).
				Str("backend", a.model.Store.Backend).
				Str("fingerprint", fmt.Sprintf("%016x", fingerprint)).
				Msg("Model tables saved")
			return nil
		},
	}
	cmd.Flags().BoolVar(&verify, "verify", false, "Build twice and fail unless both fingerprints match")
	return cmd
}

func (a *app) fingerprintCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint",
		Short: "Print the fingerprint of the stored model tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := a.loadTables()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%016x\n", model.Fingerprint(tables))
			return err
		},
	}
}

func (a *app) loadTables() (model.Tables, error) {
	set, err := store.OpenSet(a.model.Store, store.ModeReadOnly)
	if err != nil {
		return model.Tables{}, err
	}
	defer set.Close()
	return model.Load(set)
}
