package commands

import (
	"context"
	"fmt"
	"io"

	"cureconnect/cmd/bootstrap"
	"cureconnect/internal/domain/entity"
	"cureconnect/internal/infrastructure/media"
	"cureconnect/internal/usecase"

	"github.com/spf13/cobra"
)

func newPictureCommand() *cobra.Command {
	var userID, file string
	var camera bool

	cmd := &cobra.Command{
		Use:   "picture",
		Short: "Upload a local image as a user's profile picture",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, closer, err := loadConfig()
			if err != nil {
				return err
			}
			defer closer.Close()

			app, err := bootstrap.NewCore(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer app.Close()

			session, err := app.SessionFor(cmd.Context(), userID)
			if err != nil {
				return err
			}
			mediaUsecase, err := app.NewMediaUsecase(cmd.Context())
			if err != nil {
				return err
			}

			return runPicture(cmd.Context(), cmd.OutOrStdout(), mediaUsecase, session, file, camera)
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user ID whose picture is replaced")
	cmd.Flags().StringVar(&file, "file", "", "path of the image to upload; empty cancels")
	cmd.Flags().BoolVar(&camera, "camera", false, "treat the image as a camera capture")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func runPicture(ctx context.Context, out io.Writer, mediaUsecase usecase.MediaUsecase, session *entity.Session, file string, camera bool) error {
	ctx = entity.ContextWithSession(ctx, session)

	result, err := mediaUsecase.UpdatePictureFlow(ctx, &media.FilePicker{Path: file}, camera)
	if err != nil {
		return err
	}
	if result.Cancelled {
		fmt.Fprintln(out, result.Message)
		return nil
	}
	fmt.Fprintf(out, "%s\n%s\n", result.Message, result.URL)
	return nil
}
