package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dkovach/encore-cli/internal/sponsor"
)

var (
	sponsorTitleFlag string
	sponsorBodyFlag  string
	sponsorLinkFlag  string
)

var sponsorsCmd = &cobra.Command{
	Use:   "sponsors",
	Short: "View and edit sponsor placements",
}

var sponsorsShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "List all placements, or show one by name",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := sponsor.NewService(newAPIClient())
		if len(args) == 1 {
			sec, err := svc.Section(context.Background(), args[0])
			if err != nil {
				return err
			}
			printSection(sec)
			return nil
		}
		sections, err := svc.Sections(context.Background())
		if err != nil {
			return err
		}
		for i := range sections {
			printSection(&sections[i])
		}
		return nil
	},
}

var sponsorsUpdateCmd = &cobra.Command{
	Use:   "update NAME",
	Short: "Update a placement's title, body, or link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		svc := sponsor.NewService(newAPIClient())

		sec, err := svc.Section(ctx, args[0])
		if err != nil {
			return err
		}
		applyIfSet(cmd, "title", &sec.Title, sponsorTitleFlag)
		applyIfSet(cmd, "body", &sec.Body, sponsorBodyFlag)
		applyIfSet(cmd, "link", &sec.LinkURL, sponsorLinkFlag)

		if err := svc.UpdateSection(ctx, sec); err != nil {
			return err
		}
		fmt.Println("Sponsor section saved.")
		return nil
	},
}

func init() {
	sponsorsUpdateCmd.Flags().StringVar(&sponsorTitleFlag, "title", "", "Section title")
	sponsorsUpdateCmd.Flags().StringVar(&sponsorBodyFlag, "body", "", "Section body text")
	sponsorsUpdateCmd.Flags().StringVar(&sponsorLinkFlag, "link", "", "Section link URL")

	sponsorsCmd.AddCommand(sponsorsShowCmd)
	sponsorsCmd.AddCommand(sponsorsUpdateCmd)
}

func printSection(sec *sponsor.Section) {
	fmt.Printf("[%s] %s\n", sec.Name, sec.Title)
	if sec.Body != "" {
		fmt.Println(" ", sec.Body)
	}
	if sec.LinkURL != "" {
		fmt.Println(" ", sec.LinkURL)
	}
}
