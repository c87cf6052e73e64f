package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"budgetchat/internal/config"
	"budgetchat/internal/history"
	"budgetchat/internal/markdown"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse locally archived conversations",
		Long: `Lists conversations archived on this machine. The archive fills as
you use the chat; it works without a network connection.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, closeFn, err := openArchive()
			if err != nil {
				return err
			}
			defer closeFn()

			previews, err := st.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing archive: %w", err)
			}
			if len(previews) == 0 {
				fmt.Println("No archived conversations.")
				return nil
			}

			for _, p := range previews {
				title := p.Title
				if title == "" {
					title = "New conversation"
				}
				fmt.Printf("%s  %-40s  %3d messages  %s\n",
					p.ID, title, p.MessageCount, p.UpdatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}

	cmd.AddCommand(newHistoryShowCmd())
	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <conversation-id>",
		Short: "Print an archived conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, closeFn, err := openArchive()
			if err != nil {
				return err
			}
			defer closeFn()

			conv, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				if errors.Is(err, history.ErrNotFound) {
					return fmt.Errorf("conversation %s is not archived", args[0])
				}
				return fmt.Errorf("reading archive: %w", err)
			}

			fmt.Printf("# %s\n\n", conv.DisplayTitle())
			for _, m := range conv.Messages {
				fmt.Printf("[%s] %s\n", m.Role, plainText(m.Content))
				for _, s := range m.Sources {
					fmt.Printf("    source: %s p.%d\n", s.DocName, s.PageNumber)
				}
				fmt.Println()
			}
			return nil
		},
	}
}

// plainText strips the assistant's inline markdown for plain output.
func plainText(content string) string {
	blocks := markdown.Parse(content)
	out := ""
	for i, b := range blocks {
		if i > 0 {
			out += "\n"
		}
		switch b.Kind {
		case markdown.BlockSpacer:
		case markdown.BlockBullet, markdown.BlockNestedBullet:
			out += "  - " + b.PlainText()
		default:
			out += b.PlainText()
		}
	}
	return out
}

func openArchive() (*history.Store, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	db, err := history.Open(filepath.Join(cfg.DataDir(), "archive.db"))
	if err != nil {
		return nil, nil, fmt.Errorf("opening archive: %w", err)
	}
	return history.NewStore(db), func() { _ = db.Close() }, nil
}
