package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/boxcar/internal/cliconfig"
	"github.com/bft-labs/boxcar/pkg/boxcar"
	"github.com/bft-labs/boxcar/pkg/log"
)

const longHelp = `Ship newline-delimited messages from stdin to a partitioned log broker.

Boxcar batches messages per stream (tenant/document pair) into size-bounded
boxcars and flushes them on a coalescing schedule, trading a little latency
for far fewer broker round trips. Each input line becomes one message; the
command waits for broker acknowledgment of every line before exiting.

Configure via file ($HOME/.boxcar/config.toml), BOXCAR_* environment
variables, or flags; later sources win.`

const exampleUsage = `  tail -f events.log | boxcar --topic documents --tenant-id acme --document-id doc-42
  boxcar --config ./boxcar.toml --document-id doc-7 < payloads.ndjson`

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	root := &cobra.Command{
		Use:     "boxcar",
		Short:   "Batch stdin messages into boxcars and produce them to a log broker",
		Long:    longHelp,
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load config file first, then env, then flag overrides.
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := cfg.Logger()
			logger.Info().
				Str("endpoint", cfg.Endpoint).
				Str("topic", cfg.Topic).
				Str("tenant", cfg.TenantID).
				Str("document", cfg.DocumentID).
				Msg("configuration")

			producer, err := boxcar.New(boxcar.Config{
				Endpoint:         cfg.Endpoint,
				Topic:            cfg.Topic,
				MaxMessageBytes:  cfg.MaxMessageBytes,
				MaxBatchMessages: cfg.MaxBatchMessages,
				FlushDelay:       cfg.FlushDelay,
			}, boxcar.WithLogger(log.NewZerologAdapterWithLogger(logger)))
			if err != nil {
				return fmt.Errorf("create producer: %w", err)
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigCh
				logger.Info().Msg("received signal, stopping...")
				cancel()
			}()

			if err := producer.Start(ctx); err != nil {
				return fmt.Errorf("start producer: %w", err)
			}

			// Re-apply dynamic settings when the config file changes.
			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				watcher := cliconfig.NewWatcher(cfgFile, producer, logger)
				go watcher.Run(ctx)
			}

			var acks []*boxcar.Ack
			var submitted, skipped int

			scanner := bufio.NewScanner(os.Stdin)
			scanner.Buffer(make([]byte, 0, 64*1024), cfg.MaxMessageBytes)
			for scanner.Scan() {
				if ctx.Err() != nil {
					break
				}

				line := scanner.Text()
				if line == "" {
					continue
				}

				ack, err := producer.Submit(line, cfg.TenantID, cfg.DocumentID)
				if err != nil {
					skipped++
					logger.Warn().Err(err).Int("bytes", len(line)).Msg("message skipped")
					continue
				}
				acks = append(acks, ack)
				submitted++
			}
			if err := scanner.Err(); err != nil {
				logger.Error().Err(err).Msg("read stdin")
			}

			// Await delivery of everything submitted before closing; Close
			// does not wait for outstanding acknowledgments.
			var failed int
			for _, ack := range acks {
				if err := ack.Wait(ctx); err != nil {
					failed++
					logger.Error().Err(err).Msg("delivery failed")
				}
			}

			if err := producer.Close(); err != nil {
				return fmt.Errorf("close producer: %w", err)
			}

			logger.Info().
				Int("submitted", submitted).
				Int("skipped", skipped).
				Int("failed", failed).
				Msg("done")

			if failed > 0 {
				return fmt.Errorf("%d message(s) failed delivery", failed)
			}
			return nil
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.boxcar/config.toml)")
	root.Flags().StringVar(&cfg.Endpoint, "endpoint", cfg.Endpoint, "broker address (host:port)")
	root.Flags().StringVar(&cfg.Topic, "topic", cfg.Topic, "destination topic")
	root.Flags().StringVar(&cfg.TenantID, "tenant-id", cfg.TenantID, "tenant identifier of the stream")
	root.Flags().StringVar(&cfg.DocumentID, "document-id", cfg.DocumentID, "document identifier of the stream")
	root.Flags().IntVar(&cfg.MaxMessageBytes, "max-message-bytes", cfg.MaxMessageBytes, "broker maximum record size in bytes")
	root.Flags().IntVar(&cfg.MaxBatchMessages, "max-batch-messages", cfg.MaxBatchMessages, "pending-message ceiling forcing an immediate flush (0 = unbounded)")
	root.Flags().DurationVar(&cfg.FlushDelay, "flush-delay", cfg.FlushDelay, "coalescing deferral before a scheduled flush")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (trace, debug, info, warn, error)")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "boxcar: %v\n", err)
		os.Exit(1)
	}
}
