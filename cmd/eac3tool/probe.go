package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gen2brain/eac3"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

type probeOptions struct {
	Summary bool
}

func newProbeCommand(a *app) *cobra.Command {
	opts := &probeOptions{}

	cmd := &cobra.Command{
		Use:   "probe <input>...",
		Short: "Print the syncframe headers of streams",
		Example: `  eac3tool probe movie.ec3
  eac3tool probe --summary https://example.com/movie.ec3`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range args {
				if err := a.probe(cmd, name, opts); err != nil {
					return errors.Wrap(err, name)
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&opts.Summary, "summary", "s", false, "Only print the totals of each input")

	return cmd
}

// substreamStats are the totals of one substream of a probed input.
type substreamStats struct {
	header  string
	frames  int
	samples int
	bytes   int
	rate    int
}

func (a *app) probe(cmd *cobra.Command, name string, opts *probeOptions) (err error) {
	feed, err := a.open(cmd.Context(), name)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, feed.Close())
	}()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, color.New(color.Bold).Sprint(name))

	stats := map[int]*substreamStats{}
	var order []int

	var h eac3.Header
	for frame := 0; ; frame++ {
		_, err := h.Decode(feed)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}

			return errors.Wrapf(err, "frame %d", frame)
		}

		channels, err := channelNames(&h)
		if err != nil {
			return errors.Wrapf(err, "frame %d", frame)
		}

		s, ok := stats[h.SubstreamID]
		if !ok {
			s = &substreamStats{header: h.String(), rate: h.SampleRate()}
			stats[h.SubstreamID] = s
			order = append(order, h.SubstreamID)
		}
		s.frames++
		s.samples += h.Samples()
		s.bytes += h.FrameSize()

		a.logger.Debugw("frame", "input", name, "index", frame, "header", h.String())

		if !opts.Summary {
			fmt.Fprintf(out, "%6d  %s  %s  %s\n", frame, streamColor(h.StreamType).Sprintf("%-11s", h.StreamType),
				h.String(), color.CyanString(channels))
		}
	}

	for _, id := range order {
		s := stats[id]
		seconds := 0.0
		if s.rate != 0 {
			seconds = float64(s.samples) / float64(s.rate)
		}

		fmt.Fprintf(out, "substream %d: %d frames, %d bytes, %.3fs, first frame %s\n",
			id, s.frames, s.bytes, seconds, s.header)
	}

	return nil
}

func channelNames(h *eac3.Header) (string, error) {
	arrangement, err := h.ChannelArrangement()
	if err != nil {
		return "", err
	}
	if h.LFE {
		arrangement = append(arrangement, eac3.ScreenLFE)
	}

	names := lo.Map(arrangement, func(c eac3.Channel, _ int) string {
		return c.String()
	})

	return strings.Join(names, ","), nil
}

func streamColor(t eac3.StreamType) *color.Color {
	switch t {
	case eac3.StreamIndependent:
		return color.New(color.FgGreen)
	case eac3.StreamDependent:
		return color.New(color.FgYellow)
	}

	return color.New(color.Faint)
}
