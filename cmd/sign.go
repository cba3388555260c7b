package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"deltasync/pkg/bytestream"
	"deltasync/pkg/chunker"
	"deltasync/pkg/helper/errors"
	"deltasync/pkg/strongdigest"
)

// newSignCmd creates the `sign` subcommand: it chunks a single file and
// dumps the resulting SignatureSet, one line per chunk, for inspection
// and debugging.
func newSignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign <file>",
		Short: "Chunk a file and print its SignatureSet",
		Long:  `Computes the content-defined SignatureSet for a single file and prints one line per chunk: offset, length, fingerprint, and digest.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runSign,
	}
	return cmd
}

func runSign(cmd *cobra.Command, args []string) error {
	path := args[0]

	bs, err := bytestream.Open(path, bytestream.ReadOnly)
	if err != nil {
		return errors.Wrapf(err, "opening %s", path)
	}
	defer bs.Close()

	set, err := chunker.Chunk(cmd.Context(), bs, newRollingHash(cfg.Chunker), strongdigest.Blake2b512{}, cfg.Chunker.BoundaryMask)
	if err != nil {
		return errors.Wrapf(err, "signing %s", path)
	}

	out := cmd.OutOrStdout()
	for i := 0; i < set.Len(); i++ {
		c := set.At(i)
		fmt.Fprintf(out, "%d\toffset=%d\tlength=%d\tfingerprint=%d\tdigest=%s\n",
			i, c.StartOffset, c.Length, c.Fingerprint, strongdigest.FormatDigest(c.Digest))
	}
	fmt.Fprintf(out, "total chunks=%d bytes=%d\n", set.Len(), set.TotalBytes())

	return nil
}
