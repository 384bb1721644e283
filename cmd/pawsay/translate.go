package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"pawsay/internal/pkg/capture"

	"github.com/spf13/cobra"
)

func translateCmd() *cobra.Command {
	var mimeType string
	cmd := &cobra.Command{
		Use:   "translate <audio-file>",
		Short: "Translate a recorded audio file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, svc, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer log.Sync()

			species, profile, err := pet.profile()
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if mimeType == "" {
				mimeType = mime.TypeByExtension(filepath.Ext(args[0]))
			}
			if mimeType == "" {
				mimeType = "audio/webm"
			}

			j, err := svc.Translate(cmd.Context(), capture.Clip{Data: data, MIMEType: mimeType}, species, profile)
			if err != nil {
				return fmt.Errorf("AI couldn't hear that clearly: %w", err)
			}
			if !j.SoundDetected {
				fmt.Fprintf(cmd.OutOrStdout(), "No %s sound detected. Please try again!\n", species)
				return nil
			}
			printJudgment(cmd.OutOrStdout(), j)
			return nil
		},
	}
	cmd.Flags().StringVar(&mimeType, "mime", "", "audio MIME type (default: from file extension)")
	return cmd
}
