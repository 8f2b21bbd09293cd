package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/careerctx/internal/server"
)

var (
	serverPort     int
	serverAllowAll bool
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP API",
	Long:  `Starts the careerctx REST API for documents, weights, retrieval, cache statistics and company facts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		srv := server.New(server.Config{
			Port:     serverPort,
			AllowAll: serverAllowAll,
		}, a.db, server.Deps{
			Documents: a.docs,
			Facts:     a.facts,
			Weights:   a.weights,
			Assembler: a.assembler,
			Cache:     a.cache,
			Audit:     a.audit,
		})

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		fmt.Fprintf(os.Stderr, "careerctx server %s starting on port %d\n", Version, serverPort)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", a.db.Path())
		fmt.Fprintf(os.Stderr, "  Embeddings: %s\n", a.embeddingLabel())

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Port to listen on")
	serverCmd.Flags().BoolVar(&serverAllowAll, "allow-all-origins", false, "allow CORS requests from any origin")
	rootCmd.AddCommand(serverCmd)
}
