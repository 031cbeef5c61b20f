// memovox is a personal voice-memo memory assistant: record, transcribe,
// and ask questions about your own audio notes.
package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/memovox/memovox/internal/config"
	"github.com/memovox/memovox/internal/domain/query"
	chiTransport "github.com/memovox/memovox/internal/transport/chi"
	"github.com/memovox/memovox/internal/version"
)

func main() {
	root := &cobra.Command{
		Use:           "memovox",
		Short:         "Personal voice-memo memory assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		versionCmd(),
		initCmd(),
		processCmd(),
		queryCmd(),
		interactiveCmd(),
		serveCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "memovox %s (commit %s, built %s)\n",
				version.Version, version.Commit, version.Date)
		},
	}
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the relational schema and the vector index",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), config.GetEnv())
			if err != nil {
				return err
			}
			defer a.close()

			ctx := a.ctx(cmd.Context())
			if err := a.vectors.EnsureIndex(ctx, a.cfg.Vector.Dimensions); err != nil {
				return fmt.Errorf("ensure vector index: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "initialized")
			return nil
		},
	}
}

func processCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process <audio-file-or-dir>",
		Short: "Transcribe and index audio recordings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), config.GetEnv())
			if err != nil {
				return err
			}
			defer a.close()

			ctx := a.ctx(cmd.Context())
			if err := a.vectors.EnsureIndex(ctx, a.cfg.Vector.Dimensions); err != nil {
				return fmt.Errorf("ensure vector index: %w", err)
			}

			path := args[0]
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("stat %s: %w", path, err)
			}

			if info.IsDir() {
				n, err := a.ingest.ProcessDir(ctx, path)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "processed %d recording(s)\n", n)
				return nil
			}

			id, err := a.ingest.ProcessFile(ctx, path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "processed recording #%d\n", id)
			return nil
		},
	}
}

func queryCmd() *cobra.Command {
	var maxResults int
	var speak bool

	cmd := &cobra.Command{
		Use:   "query [text]",
		Short: "Ask a question about your memos",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), config.GetEnv())
			if err != nil {
				return err
			}
			defer a.close()

			text := strings.Join(args, " ")
			if text == "" {
				return fmt.Errorf("query text is required")
			}

			ctx := a.ctx(cmd.Context())
			answer := a.runQuery(ctx, text, maxResults)
			fmt.Fprintln(cmd.OutOrStdout(), answer)

			if speak {
				out := "answer.mp3"
				if err := a.speech.Synthesize(ctx, answer, out); err != nil {
					a.logger.Warn("speech synthesis failed", zap.Error(err))
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "(spoken answer saved to %s)\n", out)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxResults, "max-results", 0, "maximum retrieval results (default from config)")
	cmd.Flags().BoolVar(&speak, "speak", false, "synthesize the answer to audio")
	return cmd
}

func interactiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Interactive question loop",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), config.GetEnv())
			if err != nil {
				return err
			}
			defer a.close()

			ctx := a.ctx(cmd.Context())
			scanner := bufio.NewScanner(cmd.InOrStdin())
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "memovox: ask about your memos (exit/quit to leave)")
			for {
				fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					break
				}
				text := strings.TrimSpace(scanner.Text())
				if text == "" {
					continue
				}
				if text == "exit" || text == "quit" {
					break
				}
				fmt.Fprintln(out, a.runQuery(ctx, text, 0))
			}
			return scanner.Err()
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP query API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			env := config.GetEnv()
			a, err := newApp(cmd.Context(), env)
			if err != nil {
				return err
			}
			defer a.close()

			a.logger.Info("Starting memovox API server",
				zap.String("version", version.Version),
				zap.String("commit", version.Commit),
				zap.String("env", env),
				zap.Int("http_port", a.cfg.HTTP.Port),
			)

			server := chiTransport.NewServer(
				a.parse, a.retrieve, a.count, a.answer,
				a.cfg.Search.MaxResults, a.logger,
			)

			addr := fmt.Sprintf(":%d", a.cfg.HTTP.Port)
			srv := &http.Server{
				Addr:         addr,
				Handler:      server.Router(a.cfg.Auth.APIKeys),
				ReadTimeout:  time.Duration(a.cfg.HTTP.ReadTimeoutSec) * time.Second,
				WriteTimeout: time.Duration(a.cfg.HTTP.WriteTimeoutSec) * time.Second,
			}

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

			go func() {
				a.logger.Info("Starting HTTP server", zap.String("addr", addr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					a.logger.Fatal("HTTP server error", zap.Error(err))
				}
			}()

			<-quit
			a.logger.Info("Received shutdown signal")

			shutdownCtx, cancel := context.WithTimeout(context.Background(),
				time.Duration(a.cfg.HTTP.ShutdownSec)*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.logger.Error("Error during shutdown", zap.Error(err))
			}

			a.logger.Info("Server stopped gracefully")
			return nil
		},
	}
}

// runQuery executes the full parse → dispatch → answer pipeline for the CLI.
func (a *app) runQuery(ctx context.Context, text string, maxResults int) string {
	if maxResults <= 0 {
		maxResults = a.cfg.Search.MaxResults
	}

	params := a.parse.Parse(ctx, text)

	if params.Type() == query.TypeCount {
		res, err := a.count.Count(ctx, params)
		if err != nil {
			return err.Error()
		}
		return a.answer.FromCount(res)
	}

	hits := a.retrieve.Search(ctx, params, maxResults)
	return a.answer.FromResults(ctx, text, hits)
}
