// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/scholar-search/internal/library"
	"github.com/pdiddy/scholar-search/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the search operations over HTTP",
	Long: `Serve starts an HTTP API exposing every search operation as a GET
endpoint under /v1, plus read access to the library. It stops on SIGINT or
SIGTERM.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	orch, _, err := newOrchestrator()
	if err != nil {
		return err
	}

	var lib *library.Store
	if withLibrary, _ := cmd.Flags().GetBool("library"); withLibrary {
		lib, err = openLibrary()
		if err != nil {
			return err
		}
		defer lib.Close()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := serverConfig()
	return server.New(orch, lib, cfg, logger()).ListenAndServe(ctx, cfg.Addr)
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default server.addr)")
	serveCmd.Flags().Bool("library", true, "expose the library under /v1/library")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}
