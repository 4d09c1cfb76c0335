package main

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/gen2brain/eac3"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type app struct {
	v      *viper.Viper
	logger *zap.SugaredLogger
	client *http.Client
}

func newRootCommand() *cobra.Command {
	a := &app{
		v:      newConfig(),
		logger: zap.NewNop().Sugar(),
		client: http.DefaultClient,
	}

	var configFile string

	cmd := &cobra.Command{
		Use:   "eac3tool",
		Short: "Inspect and merge AC-3 and E-AC-3 streams",
		Long: `eac3tool reads raw AC-3 and Enhanced AC-3 (Dolby Digital Plus) streams.
It prints the syncframe headers of a stream, and merges several streams into one
stream made of an independent substream and dependent substreams.

Inputs are file paths or http(s) URLs.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := readConfig(a.v, configFile); err != nil {
				return err
			}

			logger, err := newLogger(a.v.GetBool("verbose"))
			if err != nil {
				return err
			}
			a.logger = logger

			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Config file (default is ./eac3tool.yaml or $HOME/.config/eac3tool/eac3tool.yaml)")
	flags.BoolP("verbose", "v", false, "Log every frame")
	flags.Int("chunk-size", eac3.ChunkSize, "Bytes read from an input at a time")
	_ = a.v.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = a.v.BindPFlag("chunk_size", flags.Lookup("chunk-size"))

	cmd.AddCommand(newProbeCommand(a))
	cmd.AddCommand(newMergeCommand(a))

	return cmd
}

func isURL(name string) bool {
	return lo.SomeBy([]string{"http://", "https://"}, func(prefix string) bool {
		return strings.HasPrefix(name, prefix)
	})
}

// open returns a feed over a file or an http(s) URL.
func (a *app) open(ctx context.Context, name string) (*eac3.ChunkFeed, error) {
	chunkSize := a.v.GetInt("chunk_size")

	if !isURL(name) {
		f, err := os.Open(name)
		if err != nil {
			return nil, errors.Wrap(err, "opening input")
		}

		return eac3.NewReaderFeed(f, chunkSize), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, name, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "requesting %s", name)
	}

	res, err := a.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "requesting %s", name)
	}
	if res.StatusCode != http.StatusOK {
		res.Body.Close()

		return nil, errors.Errorf("requesting %s: %s", name, res.Status)
	}

	return eac3.NewHTTPFeed(res, chunkSize, a.client), nil
}
