package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dkovach/encore-cli/internal/export"
	"github.com/dkovach/encore-cli/internal/studio"
)

var exportOutFlag string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download your studio gallery into a ZIP archive",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newAPIClient()
		svc := studio.NewService(client)
		if err := export.Gallery(context.Background(), client, svc, exportOutFlag); err != nil {
			return err
		}
		fmt.Println("Wrote", exportOutFlag)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOutFlag, "out", "gallery.zip", "Output archive path")
}
