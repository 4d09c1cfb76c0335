package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/gen2brain/eac3"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

func newMergeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge -o <output> <input>...",
		Short: "Merge streams into one stream of substreams",
		Long: `Merge streams into one stream of substreams.

The first input becomes the independent substream and has to carry the leading
channels of the layout, in the order of its channel mode. Every further input
must be E-AC-3 and becomes a dependent substream carrying the next channels of
the layout. Merging stops at the end of the shortest input.`,
		Example: `  eac3tool merge -o 7.1.ec3 5.1.ec3 rear.ec3
  eac3tool merge -o 3.0.ec3 --layout FC,FL,FR center.ec3 front.ec3`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.merge(cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringP("output", "o", "", "Output file")
	flags.String("layout", defaultLayout, "Comma separated channels of the merged stream")
	_ = a.v.BindPFlag("output", flags.Lookup("output"))
	_ = a.v.BindPFlag("layout", flags.Lookup("layout"))

	return cmd
}

func (a *app) merge(cmd *cobra.Command, inputs []string) (err error) {
	output := a.v.GetString("output")
	if output == "" {
		return errors.New("no output file, use --output")
	}

	layout, err := eac3.ParseLayout(a.v.GetString("layout"))
	if err != nil {
		return errors.Wrap(err, "parsing layout")
	}

	var sources []eac3.Source
	for _, name := range inputs {
		feed, err := a.open(cmd.Context(), name)
		if err != nil {
			return multierr.Append(errors.Wrap(err, name), closeAll(sources))
		}
		sources = append(sources, feed)
	}

	f, err := os.Create(output)
	if err != nil {
		return multierr.Append(errors.Wrap(err, "creating output"), closeAll(sources))
	}

	merger, err := eac3.NewMerger(sources, f, layout, eac3.WithLogger(a.logger))
	if err != nil {
		return multierr.Combine(err, f.Close(), closeAll(sources))
	}
	defer func() {
		err = multierr.Append(err, merger.Close())
	}()

	a.logger.Infow("merging", "inputs", inputs, "output", output, "layout", a.v.GetString("layout"))

	for {
		done, err := merger.ProcessFrame()
		if err != nil {
			return err
		}
		if done {
			break
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %d frames into %s\n",
		color.GreenString("merged"), merger.Frames(), output)

	return nil
}

func closeAll(sources []eac3.Source) error {
	return multierr.Combine(lo.FilterMap(sources, func(s eac3.Source, _ int) (error, bool) {
		feed, ok := s.(*eac3.ChunkFeed)
		if !ok {
			return nil, false
		}

		return feed.Close(), true
	})...)
}
