package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ccfrost/photoup/commands"
	"github.com/ccfrost/photoup/commands/googlephotos"
	"github.com/ccfrost/photoup/photoupconfig"
	"github.com/spf13/cobra"
)

const photoup = "photoup"

func main() {
	var configPath string
	var albumName string
	var albumID string
	var config photoupconfig.PhotoupConfig

	rootCmd := cobra.Command{
		Use:   photoup + " [flags] <path>...",
		Short: "Upload images to Google Photos with EXIF captions",
		Long: `Upload local images to Google Photos, attaching each image's EXIF
caption (UserComment, falling back to ImageDescription) as the media
item description. Paths may be image files or directories; directories
expand to the image files directly inside them, in sorted order.`,
		Args: cobra.MinimumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			config, err = photoupconfig.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := config.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			// Ctrl-C finishes the in-flight file, then stops the batch.
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			session, err := commands.NewSession(ctx, config)
			if err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
				os.Exit(1)
			}
			client := googlephotos.NewClient(session)

			target := commands.NewAlbumTarget(albumName, albumID, config.GooglePhotos.DefaultAlbum)

			results, err := commands.UploadImages(ctx, config, target, args, client)
			failed := commands.PrintSummary(os.Stdout, results)
			if err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
				os.Exit(1)
			}
			if failed > 0 {
				os.Exit(1)
			}
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the configuration file")
	rootCmd.Flags().StringVarP(&albumName, "album", "a", "", "Create a new album with this title and upload into it")
	rootCmd.Flags().StringVar(&albumID, "album-id", "", "Upload into an existing album by ID (wins over --album)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
