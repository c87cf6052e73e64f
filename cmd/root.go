// Package cmd provides the CLI commands for budgetchat.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"budgetchat/internal/config"
	"budgetchat/internal/controller"
	"budgetchat/internal/debug"
	"budgetchat/internal/gateway"
	"budgetchat/internal/history"
	"budgetchat/internal/nav"
	"budgetchat/internal/pubsub"
	"budgetchat/internal/speech"
	"budgetchat/internal/store"
	"budgetchat/internal/tui"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budgetchat",
		Short: "Chat with the Union Budget assistant",
		Long: `budgetchat is a terminal client for the Union Budget assistant.

Ask questions about allocations, taxes, and schemes; answers cite the
budget documents they are based on. Conversations are kept on the
server and archived locally for offline reading.`,
		RunE: runTUI,
	}

	cmd.Flags().Bool("debug", false, "Enable debug logging")
	cmd.Flags().String("api", "", "Override the gateway base URL")
	cmd.Flags().String("chat", "", "Open a specific conversation by ID")

	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newRegisterCmd())
	cmd.AddCommand(newLogoutCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newLangCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if api, _ := cmd.Flags().GetString("api"); api != "" {
		cfg.APIBaseURL = api
	}

	debugMode, _ := cmd.Flags().GetBool("debug")
	if debugMode || cfg.Options.Debug {
		logPath := filepath.Join(cfg.DataDir(), "debug.log")
		if debugErr := debug.Enable(logPath); debugErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to enable debug logging: %v\n", debugErr)
		} else {
			defer debug.Disable()
		}
	}

	gw := newGatewayClient(cfg)

	hub := pubsub.NewHub()
	defer hub.Shutdown()

	chatID, _ := cmd.Flags().GetString("chat")
	loc := nav.New(chatID)
	st := store.New()

	opts := []controller.Option{}
	var archiveDB *history.DB
	if !cfg.Options.DisableArchive {
		archiveDB, err = history.Open(filepath.Join(cfg.DataDir(), "archive.db"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: archive unavailable: %v\n", err)
		} else {
			defer archiveDB.Close()
			opts = append(opts, controller.WithArchive(history.NewStore(archiveDB)))
		}
	}

	ctrl := controller.New(gw, st, loc, hub.Chat, opts...)

	// Externally driven location changes (the --chat deep link and any
	// future navigation surface) reconcile through the controller.
	loc.OnChange(func(string) {
		go func() {
			if err := ctrl.SyncFromLocation(context.Background()); err != nil {
				debug.Error("cmd", err, "syncing from location")
			}
		}()
	})

	synth := speech.NewSynthesizer()
	recog := speech.NewRecognizer(cfg.Options.TranscriberCmd)

	return tui.Run(cfg, ctrl, hub, synth, recog)
}

func newGatewayClient(cfg *config.Config) *gateway.HTTPClient {
	return gateway.NewHTTPClient(cfg.APIBaseURL, gateway.WithTokenSource(func() string {
		return cfg.AuthToken
	}))
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}
