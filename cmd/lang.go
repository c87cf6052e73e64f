package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"budgetchat/internal/config"
	"budgetchat/internal/speech"
)

func newLangCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lang [code]",
		Short: "Show or set the voice-input language",
		Long: `With no argument, lists the available speech languages and marks the
current one. With a code (full like "hi-IN" or short like "hi"), saves
it as the voice-input language.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			if len(args) == 0 {
				for _, l := range speech.Languages {
					marker := " "
					if l.Code == cfg.SpeechLanguage {
						marker = "*"
					}
					fmt.Printf("%s %-6s  %-22s %s\n", marker, l.Code, l.Name, l.NativeName)
				}
				return nil
			}

			code := speech.NormalizeCode(args[0])
			if err := config.SetSpeechLanguage(code); err != nil {
				return fmt.Errorf("saving language: %w", err)
			}
			fmt.Printf("Voice-input language set to %s (%s)\n", speech.LanguageName(code), code)
			return nil
		},
	}
}
