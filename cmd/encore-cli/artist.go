package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/dkovach/encore-cli/internal/artist"
	"github.com/dkovach/encore-cli/internal/cli"
	"github.com/dkovach/encore-cli/internal/media"
)

// artist edit flags
var (
	artistNameFlag      string
	artistBioFlag       string
	artistLocationFlag  string
	artistAddPhotosFlag []string
	artistRmPhotosFlag  []int
	artistAddAudioFlag  string
	artistRmAudioFlag   bool
	artistPickFlag      bool
)

var artistCmd = &cobra.Command{
	Use:   "artist",
	Short: "Manage your artist profile and media",
}

var artistShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your artist profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := artist.NewService(newAPIClient())
		p, err := svc.Mine(context.Background())
		if err != nil {
			return err
		}
		if p == nil {
			fmt.Println("You have no artist profile yet. Create one with: encore-cli artist edit")
			return nil
		}
		printArtist(p)
		return nil
	},
}

var artistEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit and save your artist profile (creates it if none exists)",
	RunE:  runArtistEdit,
}

func init() {
	artistEditCmd.Flags().StringVar(&artistNameFlag, "name", "", "Artist name")
	artistEditCmd.Flags().StringVar(&artistBioFlag, "bio", "", "Biography")
	artistEditCmd.Flags().StringVar(&artistLocationFlag, "location", "", "Location")
	artistEditCmd.Flags().StringArrayVar(&artistAddPhotosFlag, "add-photo", nil, "Photo file to attach (repeatable)")
	artistEditCmd.Flags().IntSliceVar(&artistRmPhotosFlag, "rm-photo", nil, "Photo position to remove (repeatable)")
	artistEditCmd.Flags().StringVar(&artistAddAudioFlag, "add-audio", "", "Audio track to attach (remove the current one first)")
	artistEditCmd.Flags().BoolVar(&artistRmAudioFlag, "rm-audio", false, "Remove the current audio track")
	artistEditCmd.Flags().BoolVar(&artistPickFlag, "pick", false, "Choose photos with the native file picker")

	artistCmd.AddCommand(artistShowCmd)
	artistCmd.AddCommand(artistEditCmd)
}

func runArtistEdit(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	svc := artist.NewService(newAPIClient())

	sess, err := svc.NewEditSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	applyIfSet(cmd, "name", &sess.Form.Name, artistNameFlag)
	applyIfSet(cmd, "bio", &sess.Form.Biography, artistBioFlag)
	applyIfSet(cmd, "location", &sess.Form.Location, artistLocationFlag)

	sort.Sort(sort.Reverse(sort.IntSlice(artistRmPhotosFlag)))
	for _, idx := range artistRmPhotosFlag {
		if err := sess.Photos.RemoveAt(idx); err != nil {
			return err
		}
	}
	if artistRmAudioFlag && sess.Audio.Len() > 0 {
		if err := sess.Audio.RemoveAt(0); err != nil {
			return err
		}
	}

	addPhotos := artistAddPhotosFlag
	if artistPickFlag {
		addPhotos = append(addPhotos, cli.PickMediaFiles(media.KindPhoto)...)
	}
	attach(sess.Photos, addPhotos)
	if artistAddAudioFlag != "" {
		attach(sess.Audio, []string{artistAddAudioFlag})
	}

	p, err := sess.Save(ctx)
	if err != nil {
		return err
	}
	fmt.Println("Artist profile saved.")
	printArtist(p)
	return nil
}

func printArtist(p *artist.Profile) {
	fmt.Println(p.Name)
	if p.Location != "" {
		fmt.Println("Location:", p.Location)
	}
	if p.Biography != "" {
		fmt.Println(p.Biography)
	}
	for i, url := range p.Photos {
		fmt.Printf("  photo %d: %s\n", i, url)
	}
	for _, url := range p.Audios {
		fmt.Println("  audio:", url)
	}
}
