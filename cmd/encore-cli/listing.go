package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/dkovach/encore-cli/internal/cli"
	"github.com/dkovach/encore-cli/internal/market"
	"github.com/dkovach/encore-cli/internal/media"
)

// listing edit flags
var (
	listingTitleFlag       string
	listingDescriptionFlag string
	listingPriceFlag       string
	listingLocationFlag    string
	listingStatusFlag      string
	listingAddPhotosFlag   []string
	listingRmPhotosFlag    []int
	listingAddVideoFlag    string
	listingRmVideoFlag     bool
	listingPickFlag        bool
)

var listingCmd = &cobra.Command{
	Use:   "listing",
	Short: "Manage your marketplace listing",
}

var listingShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your current listing",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := market.NewService(newAPIClient())
		listing, err := svc.Mine(context.Background())
		if err != nil {
			return err
		}
		if listing == nil {
			fmt.Println("You have no listing yet. Create one with: encore-cli listing edit")
			return nil
		}
		printListing(listing)
		return nil
	},
}

var listingEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit and save your listing (creates it if none exists)",
	RunE:  runListingEdit,
}

var listingDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete your listing",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cli.Confirm("Delete your listing permanently?") {
			return nil
		}
		return market.NewService(newAPIClient()).DeleteMine(context.Background())
	},
}

func init() {
	listingEditCmd.Flags().StringVar(&listingTitleFlag, "title", "", "Listing title")
	listingEditCmd.Flags().StringVar(&listingDescriptionFlag, "description", "", "Listing description")
	listingEditCmd.Flags().StringVar(&listingPriceFlag, "price", "", "Price (e.g., 149.99)")
	listingEditCmd.Flags().StringVar(&listingLocationFlag, "location", "", "Location")
	listingEditCmd.Flags().StringVar(&listingStatusFlag, "status", "", "Listing status (active/paused)")
	listingEditCmd.Flags().StringArrayVar(&listingAddPhotosFlag, "add-photo", nil, "Photo file to attach (repeatable)")
	listingEditCmd.Flags().IntSliceVar(&listingRmPhotosFlag, "rm-photo", nil, "Photo position to remove (repeatable)")
	listingEditCmd.Flags().StringVar(&listingAddVideoFlag, "add-video", "", "Video file to attach (replaces the current one)")
	listingEditCmd.Flags().BoolVar(&listingRmVideoFlag, "rm-video", false, "Remove the current video")
	listingEditCmd.Flags().BoolVar(&listingPickFlag, "pick", false, "Choose photos with the native file picker")

	listingCmd.AddCommand(listingShowCmd)
	listingCmd.AddCommand(listingEditCmd)
	listingCmd.AddCommand(listingDeleteCmd)
}

func runListingEdit(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	svc := market.NewService(newAPIClient())

	sess, err := svc.NewEditSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	applyIfSet(cmd, "title", &sess.Form.Title, listingTitleFlag)
	applyIfSet(cmd, "description", &sess.Form.Description, listingDescriptionFlag)
	applyIfSet(cmd, "price", &sess.Form.Price, listingPriceFlag)
	applyIfSet(cmd, "location", &sess.Form.Location, listingLocationFlag)
	applyIfSet(cmd, "status", &sess.Form.Status, listingStatusFlag)

	// Removals first, highest position first, so earlier removals do
	// not shift the positions the user asked for.
	sort.Sort(sort.Reverse(sort.IntSlice(listingRmPhotosFlag)))
	for _, idx := range listingRmPhotosFlag {
		if err := sess.Photos.RemoveAt(idx); err != nil {
			return err
		}
	}
	if listingRmVideoFlag && sess.Video.Len() > 0 {
		if err := sess.Video.RemoveAt(0); err != nil {
			return err
		}
	}

	addPhotos := listingAddPhotosFlag
	if listingPickFlag {
		addPhotos = append(addPhotos, cli.PickMediaFiles(media.KindPhoto)...)
	}
	attach(sess.Photos, addPhotos)
	if listingAddVideoFlag != "" {
		attach(sess.Video, []string{listingAddVideoFlag})
	}

	listing, err := sess.Save(ctx)
	if err != nil {
		return err
	}
	fmt.Println("Listing saved.")
	printListing(listing)
	return nil
}

// applyIfSet overwrites dst only when the user passed the flag, so an
// edit without a flag keeps the server's current value.
func applyIfSet(cmd *cobra.Command, name string, dst *string, value string) {
	if cmd.Flags().Changed(name) {
		*dst = value
	}
}

// attach adds files to a collection and prints each rejection without
// aborting the edit; good files stay attached.
func attach(c *media.Collection, paths []string) {
	if len(paths) == 0 {
		return
	}
	added, rejected := c.AddFiles(paths)
	for _, err := range rejected {
		fmt.Println("Skipped:", err)
	}
	if added > 0 {
		fmt.Printf("Attached %d file(s).\n", added)
	}
}

func printListing(l *market.Listing) {
	fmt.Printf("%s  $%.2f (%s)\n", l.Title, l.Price, l.Status)
	if l.Location != "" {
		fmt.Println("Location:", l.Location)
	}
	if l.Description != "" {
		fmt.Println(l.Description)
	}
	for i, url := range l.Photos {
		label := ""
		if i == 0 {
			label = " (cover)"
		}
		fmt.Printf("  photo %d%s: %s\n", i, label, url)
	}
	if l.Video != "" {
		fmt.Println("  video:", l.Video)
	}
}
