package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"deltasync/pkg/aligner"
	"deltasync/pkg/bytestream"
	"deltasync/pkg/chunker"
	"deltasync/pkg/helper/errors"
	"deltasync/pkg/metrics"
	"deltasync/pkg/strongdigest"
)

// newDiffCmd creates the `diff` subcommand: it runs the full sign/sign/align
// pipeline but prints the resulting delta record stream in a human-readable
// form instead of serializing it to a delta file, for inspection/debugging.
func newDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <oldfile> <newfile>",
		Short: "Align two files and print the resulting delta records",
		Args:  cobra.ExactArgs(2),
		RunE:  runDiff,
	}
	return cmd
}

func runDiff(cmd *cobra.Command, args []string) error {
	oldFile, err := bytestream.Open(args[0], bytestream.ReadOnly)
	if err != nil {
		return errors.Wrapf(err, "opening %s", args[0])
	}
	defer oldFile.Close()

	newFile, err := bytestream.Open(args[1], bytestream.ReadOnly)
	if err != nil {
		return errors.Wrapf(err, "opening %s", args[1])
	}
	defer newFile.Close()

	sd := strongdigest.Blake2b512{}

	oldSet, err := chunker.Chunk(cmd.Context(), oldFile, newRollingHash(cfg.Chunker), sd, cfg.Chunker.BoundaryMask)
	if err != nil {
		return errors.Wrap(err, "signing old file")
	}
	newSet, err := chunker.Chunk(cmd.Context(), newFile, newRollingHash(cfg.Chunker), sd, cfg.Chunker.BoundaryMask)
	if err != nil {
		return errors.Wrap(err, "signing new file")
	}

	stream, err := aligner.Align(oldSet, newSet, oldFile, newFile, metrics.NoopMetrics{})
	if err != nil {
		return errors.Wrap(err, "aligning signatures")
	}

	out := cmd.OutOrStdout()
	for i, rec := range stream {
		fmt.Fprintf(out, "%d\t%s\toffset=%d\tlength=%d\tpayload_bytes=%d\n",
			i, rec.Tag, rec.Chunk.StartOffset, rec.Chunk.Length, len(rec.Payload))
	}
	fmt.Fprintf(out, "total records=%d\n", len(stream))

	return nil
}
