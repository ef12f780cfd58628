package main

import (
	"sanitybox/internal/client"

	"github.com/spf13/cobra"
)

var uploadMimeType string

var uploadCmd = &cobra.Command{
	Use:   "upload <path-or-url>",
	Short: "Upload an image asset",
	Long: `Upload an image asset from a local file or an http(s) URL and print
the created asset document.

The content type is derived from the file extension, falling back to
content sniffing; use --mime to force it.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	addAPIFlags(uploadCmd)
	uploadCmd.Flags().StringVar(&uploadMimeType, "mime", "", "Force the asset content type")
}

func runUpload(cmd *cobra.Command, args []string) error {
	c, _, err := newProjectClient()
	if err != nil {
		return err
	}

	result, err := c.UploadAsset(cmd.Context(), args[0], client.AssetOptions{
		MimeType: uploadMimeType,
	})
	if err != nil {
		return err
	}

	return printJSON(result)
}
