package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"text2phenotype.com/morphtag/api"
	"text2phenotype.com/morphtag/pipeline"
	"text2phenotype.com/morphtag/tagger"
	"text2phenotype.com/morphtag/worker"
)

const workerRestartDelay = 5 * time.Second

// openTagger attaches to the stored tables, first pulling the snapshot from
// S3 when fromS3 is set.
func (a *app) openTagger(fromS3 bool) (*tagger.Tagger, error) {
	if fromS3 {
		if err := a.fetchSnapshot(a.env.SnapshotKey); err != nil {
			return nil, err
		}
	}
	return tagger.Open(a.model)
}

func (a *app) tagCommand() *cobra.Command {
	var fromS3 bool

	cmd := &cobra.Command{
		Use:   "tag <text-file>",
		Short: "Tag a file with one word per line and blank lines between sentences",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.openTagger(fromS3)
			if err != nil {
				return err
			}
			defer t.Close()

			scored, plain, err := t.TagFile(args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			for i := range scored {
				var line interface{} = scored[i]
				if a.plain {
					line = plain[i]
				}
				if err := enc.Encode(line); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&fromS3, "from-s3", false, "Fetch the model snapshot from S3 first")
	return cmd
}

func (a *app) serveCommand() *cobra.Command {
	var fromS3 bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve tagging over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.openTagger(fromS3)
			if err != nil {
				return err
			}
			defer t.Close()

			apiRequest := &api.Request{
				Pipeline: pipeline.NewTagging(t, pipeline.Params{Plain: a.plain}),
			}
			mux := http.NewServeMux()
			mux.HandleFunc("/", apiRequest.ProcessData)
			host := fmt.Sprintf(":%s", a.env.RestAPIPort)
			a.mainLogger.Info().Msgf("REST API on %s", host)
			return http.ListenAndServe(host, mux)
		},
	}
	cmd.Flags().BoolVar(&fromS3, "from-s3", false, "Fetch the model snapshot from S3 first")
	return cmd
}

func (a *app) workCommand() *cobra.Command {
	var fromS3 bool

	cmd := &cobra.Command{
		Use:   "work",
		Short: "Serve tagging requests from RMQ",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.openTagger(fromS3)
			if err != nil {
				return err
			}
			defer t.Close()

			ppln := pipeline.NewTagging(t, pipeline.Params{Plain: a.plain})
			a.mainLogger.Info().Msg("Start morphtag worker")
			for {
				rmqWorker, err := worker.New(ppln)
				if err != nil {
					a.mainLogger.Error().Err(err).Msg("Could not initialize RMQ worker")
					return err
				}
				if err := rmqWorker.StartWorker(); err != nil {
					a.mainLogger.Err(err).Msgf("Worker returned with error. Launching new in %s", workerRestartDelay)
					time.Sleep(workerRestartDelay)
				}
			}
		},
	}
	cmd.Flags().BoolVar(&fromS3, "from-s3", false, "Fetch the model snapshot from S3 first")
	return cmd
}
