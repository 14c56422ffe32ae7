package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dkovach/encore-cli/internal/cli"
	"github.com/dkovach/encore-cli/internal/filehandler"
	"github.com/dkovach/encore-cli/internal/media"
	"github.com/dkovach/encore-cli/internal/studio"
)

// studio edit flags
var (
	studioNameFlag  string
	studioCityFlag  string
	studioStateFlag string
	studioBioFlag   string
)

// studio services flags
var studioServiceRowsFlag []string

var studioCmd = &cobra.Command{
	Use:   "studio",
	Short: "Manage your studio profile and media",
}

var studioShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your studio profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		svc := studio.NewService(newAPIClient())
		p, err := svc.Profile(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s  %s, %s\n", p.Name, p.City, p.State)
		if p.Biography != "" {
			fmt.Println(p.Biography)
		}
		for _, row := range p.Services {
			fmt.Printf("  %s: $%s\n", row.Name, row.Price)
		}
		if p.Audio != "" {
			fmt.Println("  audio:", p.Audio)
		}
		photos, err := svc.Photos(ctx)
		if err != nil {
			return err
		}
		for i, ph := range photos {
			fmt.Printf("  photo %d [%s]: %s\n", i, ph.ID, ph.URL)
		}
		return nil
	},
}

var studioEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Update your studio profile fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		svc := studio.NewService(newAPIClient())
		p, err := svc.Profile(ctx)
		if err != nil {
			return err
		}

		applyIfSet(cmd, "name", &p.Name, studioNameFlag)
		applyIfSet(cmd, "city", &p.City, studioCityFlag)
		applyIfSet(cmd, "state", &p.State, studioStateFlag)
		applyIfSet(cmd, "bio", &p.Biography, studioBioFlag)

		if _, err := svc.UpdateProfile(ctx, p); err != nil {
			return err
		}
		fmt.Println("Studio profile saved.")
		return nil
	},
}

var studioServicesCmd = &cobra.Command{
	Use:   "services",
	Short: "Replace the service/pricing list",
	Long: `Replace the studio's service list. Each --set entry is NAME=PRICE:

  encore-cli studio services --set "Hourly session=45" --set "Full day=300"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rows := make([]studio.ServiceRow, 0, len(studioServiceRowsFlag))
		for _, entry := range studioServiceRowsFlag {
			name, price, ok := strings.Cut(entry, "=")
			if !ok {
				return fmt.Errorf("invalid --set entry %q: expected NAME=PRICE", entry)
			}
			rows = append(rows, studio.ServiceRow{Name: strings.TrimSpace(name), Price: strings.TrimSpace(price)})
		}
		if err := studio.NewService(newAPIClient()).UpdateServices(context.Background(), rows); err != nil {
			return err
		}
		fmt.Println("Service list saved.")
		return nil
	},
}

var studioPhotosCmd = &cobra.Command{
	Use:   "photos",
	Short: "Manage the studio photo gallery",
}

var studioPhotosAddCmd = &cobra.Command{
	Use:   "add [files...]",
	Short: "Upload photos to the gallery",
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := args
		if len(paths) == 0 {
			paths = cli.PickMediaFiles(media.KindPhoto)
		}
		if len(paths) == 0 {
			return fmt.Errorf("no files selected")
		}
		for _, p := range paths {
			if insp, err := filehandler.Inspect(p); err == nil {
				fmt.Println("  " + insp.Summary())
			}
		}
		photos, err := studio.NewService(newAPIClient()).AddPhotos(context.Background(), paths)
		if err != nil {
			return err
		}
		fmt.Printf("Uploaded. The gallery now has %d photo(s).\n", len(photos))
		return nil
	},
}

var studioPhotosRmCmd = &cobra.Command{
	Use:   "rm <photo-id...>",
	Short: "Delete gallery photos by id",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return studio.NewService(newAPIClient()).DeletePhotos(context.Background(), args)
	},
}

var studioAudioCmd = &cobra.Command{
	Use:   "audio",
	Short: "Manage the studio audio sample",
}

var studioAudioSetCmd = &cobra.Command{
	Use:   "set <file>",
	Short: "Upload the audio sample (remove the current one first)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return studio.NewService(newAPIClient()).SetAudio(context.Background(), args[0])
	},
}

var studioAudioRmCmd = &cobra.Command{
	Use:   "rm",
	Short: "Remove the audio sample",
	RunE: func(cmd *cobra.Command, args []string) error {
		return studio.NewService(newAPIClient()).DeleteAudio(context.Background())
	},
}

func init() {
	studioEditCmd.Flags().StringVar(&studioNameFlag, "name", "", "Studio name")
	studioEditCmd.Flags().StringVar(&studioCityFlag, "city", "", "City")
	studioEditCmd.Flags().StringVar(&studioStateFlag, "state", "", "State")
	studioEditCmd.Flags().StringVar(&studioBioFlag, "bio", "", "Biography")
	studioServicesCmd.Flags().StringArrayVar(&studioServiceRowsFlag, "set", nil, "Service row as NAME=PRICE (repeatable)")

	studioPhotosCmd.AddCommand(studioPhotosAddCmd)
	studioPhotosCmd.AddCommand(studioPhotosRmCmd)
	studioAudioCmd.AddCommand(studioAudioSetCmd)
	studioAudioCmd.AddCommand(studioAudioRmCmd)

	studioCmd.AddCommand(studioShowCmd)
	studioCmd.AddCommand(studioEditCmd)
	studioCmd.AddCommand(studioServicesCmd)
	studioCmd.AddCommand(studioPhotosCmd)
	studioCmd.AddCommand(studioAudioCmd)
}
