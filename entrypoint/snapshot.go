package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"text2phenotype.com/morphtag/model"
	"text2phenotype.com/morphtag/s3client"
	"text2phenotype.com/morphtag/store"
)

func (a *app) publishCommand() *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Upload the stored model tables to S3 as one snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := a.loadTables()
			if err != nil {
				return err
			}
			data, err := model.EncodeSnapshot(tables)
			if err != nil {
				return err
			}
			client, err := s3client.New()
			if err != nil {
				return err
			}
			defer client.Close()
			if _, err := client.Upload(data, a.snapshotKey(key)); err != nil {
				return err
			}
			a.mainLogger.Info().
				Str("bucket", client.Bucket()).
				Str("key", a.snapshotKey(key)).
				Int("size", len(data)).
				Msg("Published model snapshot")
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "Object key (overrides MORPH_SNAPSHOT_KEY)")
	return cmd
}

func (a *app) fetchCommand() *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download a model snapshot from S3 into the configured store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.fetchSnapshot(a.snapshotKey(key))
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "Object key (overrides MORPH_SNAPSHOT_KEY)")
	return cmd
}

func (a *app) snapshotKey(key string) string {
	if key != "" {
		return key
	}
	return a.env.SnapshotKey
}

func (a *app) fetchSnapshot(key string) error {
	client, err := s3client.New()
	if err != nil {
		return err
	}
	defer client.Close()
	data, err := client.Download(key)
	if err != nil {
		return err
	}
	tables, err := model.DecodeSnapshot(data)
	if err != nil {
		return err
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
		Str("key", key).
		Str("backend", a.model.Store.Backend).
		Str("fingerprint", fmt.Sprintf("%016x", model.Fingerprint(tables))).
		Msg("Fetched model snapshot")
	return nil
}
