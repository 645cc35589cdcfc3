package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/lustre-atelier/backoffice/internal/remote"
)

func NewUploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <path>",
		Short: "Upload an image and print the URL it is served from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(env *Env) error {
				file, err := os.Open(args[0])
				if err != nil {
					return errors.WithMessage(err, "could not open file")
				}
				defer file.Close()

				url, err := env.Session.Media.Upload(cmd.Context(), remote.Attachment{Name: filepath.Base(args[0]), Content: file})
				if err != nil {
					env.Session.Feedback.Error(remote.MessageOf(err))
					return err
				}
				env.Session.Feedback.Success("Image uploaded successfully")
				fmt.Fprintln(cmd.OutOrStdout(), url)
				return nil
			})
		},
	}
}
