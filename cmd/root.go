// Package cmd provides the command-line interface for deltasync: the
// root command implements the three-positional-argument contract
// (`deltasync <oldfile> <newfile> <deltafile>`), with `version`,
// `sign`, and `diff` as additive subcommands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"deltasync/pkg/aligner"
	"deltasync/pkg/bytestream"
	"deltasync/pkg/chunker"
	"deltasync/pkg/config"
	"deltasync/pkg/delta"
	"deltasync/pkg/helper/banner"
	"deltasync/pkg/helper/errors"
	"deltasync/pkg/helper/log"
	"deltasync/pkg/helper/util"
	"deltasync/pkg/metrics"
	"deltasync/pkg/rollinghash"
	"deltasync/pkg/strongdigest"
)

var (
	// cfg is the process-wide configuration, populated from flag
	// defaults, optionally overlaid by --config, then overridden by any
	// flags the user passed explicitly.
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "deltasync <oldfile> <newfile> <deltafile>",
		Short: "Content-defined chunk delta synchronizer",
		Long: `deltasync computes a compact delta describing how to reconstruct
a new file from an old one, using content-defined chunking, a rolling
fingerprint, and a strong digest to align the two files' chunk sequences.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runRoot,
	}
)

// Execute runs the root command. It is the sole entry point main calls.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cfg = config.NewDefaultConfig()
	cfg.AddFlagsToCommand(rootCmd)

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSignCmd())
	rootCmd.AddCommand(newDiffCmd())
}

// runRoot implements the CLI contract directly: exactly three
// positional arguments (old file, new file, delta file), exit 1 if
// they're missing, the version phrase printed on every invocation,
// exit 0 on success.
func runRoot(cmd *cobra.Command, args []string) error {
	fmt.Fprintf(cmd.OutOrStdout(), "%s v. %s\n", os.Args[0], banner.Version)

	if len(args) != 3 {
		cmd.SilenceUsage = false
		return errors.InvalidInputf("usage: %s <oldfile> <newfile> <deltafile>", os.Args[0])
	}

	if cfg.ConfigFile != "" {
		// Remember the flags passed explicitly so they can be reapplied
		// on top of the file's values.
		explicit := map[string]string{}
		cmd.Flags().Visit(func(f *pflag.Flag) { explicit[f.Name] = f.Value.String() })
		if err := cfg.LoadFile(cfg.ConfigFile); err != nil {
			return errors.Wrap(err, "loading config file")
		}
		for name, value := range explicit {
			if err := cmd.Flags().Set(name, value); err != nil {
				return errors.Wrapf(err, "reapplying flag --%s", name)
			}
		}
	}

	logger := createLogger(cfg.LogLevel)
	log.SetGlobalLogger(logger)

	ctx, cancel := setupSignalContext(cmd.Context(), logger)
	defer cancel()

	return runDeltaSync(ctx, logger, metrics.NewRegistry(), args[0], args[1], args[2])
}

// runDeltaSync opens the three ByteStreams the pipeline needs (old
// file, new file, delta output), runs sign/sign/align/write, and
// guarantees every handle closes via a ResourceCleaner regardless of
// how the function returns.
func runDeltaSync(ctx context.Context, logger log.Logger, collector metrics.MetricsCollector, oldPath, newPath, deltaPath string) error {
	cleaner := util.NewResourceCleaner(logger)
	defer cleaner.DeferCleanupAll()

	oldFile, err := bytestream.Open(oldPath, bytestream.ReadOnly)
	if err != nil {
		return errors.Wrapf(err, "opening old file %s", oldPath)
	}
	cleaner.AddCloser("old-file", closerFunc(oldFile.Close), 30)

	newFile, err := bytestream.Open(newPath, bytestream.ReadOnly)
	if err != nil {
		return errors.Wrapf(err, "opening new file %s", newPath)
	}
	cleaner.AddCloser("new-file", closerFunc(newFile.Close), 20)

	deltaFile, err := bytestream.Open(deltaPath, bytestream.WriteOnly)
	if err != nil {
		return errors.Wrapf(err, "opening delta file %s", deltaPath)
	}
	cleaner.AddCloser("delta-file", closerFunc(deltaFile.Close), 10)

	sd := strongdigest.Blake2b512{}

	start := time.Now()
	oldSet, err := chunker.Chunk(ctx, oldFile, newRollingHash(cfg.Chunker), sd, cfg.Chunker.BoundaryMask)
	collector.ObservePipelineDuration("sign-old", time.Since(start))
	if err != nil {
		return errors.Wrap(err, "signing old file")
	}
	for i := 0; i < oldSet.Len(); i++ {
		collector.RecordChunk("old", oldSet.At(i).Length)
	}

	start = time.Now()
	newSet, err := chunker.Chunk(ctx, newFile, newRollingHash(cfg.Chunker), sd, cfg.Chunker.BoundaryMask)
	collector.ObservePipelineDuration("sign-new", time.Since(start))
	if err != nil {
		return errors.Wrap(err, "signing new file")
	}
	for i := 0; i < newSet.Len(); i++ {
		collector.RecordChunk("new", newSet.At(i).Length)
	}

	logger.WithFields(map[string]interface{}{
		"old_chunks": oldSet.Len(),
		"new_chunks": newSet.Len(),
	}).Info("signatures built")

	start = time.Now()
	stream, err := aligner.Align(oldSet, newSet, oldFile, newFile, collector)
	collector.ObservePipelineDuration("align", time.Since(start))
	if err != nil {
		return errors.Wrap(err, "aligning signatures")
	}

	writer := delta.NewWriter(deltaFile)
	start = time.Now()
	for _, rec := range stream {
		if err := writer.WriteRecord(rec); err != nil {
			return errors.Wrap(err, "writing delta record")
		}
		collector.RecordDeltaRecord(rec.Tag.String())
	}
	collector.ObservePipelineDuration("write", time.Since(start))

	logger.WithField("records", len(stream)).Info("delta written")
	printSummary(len(stream), deltaPath)
	return nil
}

// printSummary writes a one-line completion summary to stdout, in color
// when stdout is an interactive terminal and plain text otherwise (a
// piped/redirected stdout gets no ANSI escapes mixed into its bytes).
func printSummary(records int, deltaPath string) {
	msg := fmt.Sprintf("wrote %d delta records to %s", records, deltaPath)
	if term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintf(os.Stdout, "\x1b[32m%s\x1b[0m\n", msg)
		return
	}
	fmt.Fprintln(os.Stdout, msg)
}

// newRollingHash builds the RollingHash variant selected by c.WeakHash
// ("rabin", the default, or "xxhash").
func newRollingHash(c config.ChunkerConfig) rollinghash.RollingHash {
	if c.WeakHash == "xxhash" {
		return rollinghash.NewXXHash(c.AlphabetSize, c.WindowSize)
	}
	return rollinghash.NewRabin(c.AlphabetSize, c.WindowSize, c.Modulus)
}

// closerFunc adapts a `func() error` to util.AddCloser's io.Closer
// parameter without introducing a one-off interface at each call site.
type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// setupSignalContext creates a cancellable context following the
// project's established signal-handling convention: SIGINT/SIGTERM
// cancel ctx, which the chunker checks at chunk-emission boundaries
// rather than mid-roll. The aligner takes no context and is not
// interrupted by cancellation.
func setupSignalContext(parent context.Context, logger log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			logger.Info("received termination signal, shutting down")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// createLogger creates a new logger with the specified level.
func createLogger(level string) log.Logger {
	var logLevel log.Level
	switch level {
	case "debug":
		logLevel = log.DebugLevel
	case "info":
		logLevel = log.InfoLevel
	case "warn":
		logLevel = log.WarnLevel
	case "error":
		logLevel = log.ErrorLevel
	case "fatal":
		logLevel = log.FatalLevel
	default:
		logLevel = log.InfoLevel
	}
	return log.NewBasicLogger(logLevel)
}
