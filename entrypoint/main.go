package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"text2phenotype.com/morphtag/logger"
	"text2phenotype.com/morphtag/types"
)

type Config struct {
	ModelConfigPath string `envconfig:"MORPH_CONFIG_PATH" default:""`
	RestAPIPort     string `envconfig:"MORPH_REST_API_PORT" default:"10000"`
	SnapshotKey     string `envconfig:"MORPH_SNAPSHOT_KEY" default:"models/morphtag.msgpack"`
	PlainOutput     bool   `envconfig:"MORPH_PLAIN_OUTPUT" default:"false"`
}

type app struct {
	envFile    string
	configPath string
	plain      bool
	env        Config
	model      types.Config
	mainLogger zerolog.Logger
}

func main() {
	logger.SetupLogging()
	a := &app{mainLogger: logger.NewLogger("Main")}
	if err := a.rootCommand().Execute(); err != nil {
		a.mainLogger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "morphtag",
		Short:         "Statistical lemmatizer and morphological tagger",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "Environment file loaded before reading MORPH_* variables")
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Model config YAML (overrides MORPH_CONFIG_PATH)")
	root.PersistentFlags().BoolVar(&a.plain, "plain", false, "Drop scores from tagging output")

	root.AddCommand(
		a.buildCommand(),
		a.tagCommand(),
		a.serveCommand(),
		a.workCommand(),
		a.publishCommand(),
		a.fetchCommand(),
		a.fingerprintCommand(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	if err := godotenv.Load(a.envFile); err != nil {
		if !errors.Is(err, fs.ErrNotExist) || cmd.Flags().Changed("env-file") {
			return err
		}
	}
	// levels may come from the env file
	logger.SetupLogging()
	a.mainLogger = logger.NewLogger("Main")

	if err := envconfig.Process("", &a.env); err != nil {
		a.mainLogger.Error().Err(err).Caller().Msg("Failed to read environment")
		return err
	}
	if a.configPath == "" {
		a.configPath = a.env.ModelConfigPath
	}
	if !cmd.Flags().Changed("plain") {
		a.plain = a.env.PlainOutput
	}

	a.model = types.DefaultConfig()
	if a.configPath != "" {
		cfg, err := types.LoadConfig(a.configPath)
		if err != nil {
			a.mainLogger.Error().Err(err).Str("config_path", a.configPath).Msg("Failed to load model config")
			return err
		}
		a.model = cfg
	}
	a.mainLogger.Debug().
		Interface("store", a.model.Store).
		Str("config_path", a.configPath).
		Msg("Configuration loaded")
	return nil
}
