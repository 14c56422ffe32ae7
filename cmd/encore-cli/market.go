package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dkovach/encore-cli/internal/market"
)

var marketCmd = &cobra.Command{
	Use:   "market",
	Short: "Browse the marketplace and buy",
}

var marketBrowseCmd = &cobra.Command{
	Use:   "browse",
	Short: "List all public listings",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := market.NewService(newAPIClient())
		listings, err := svc.Browse(context.Background())
		if err != nil {
			return err
		}
		if len(listings) == 0 {
			fmt.Println("No listings right now.")
			return nil
		}
		for _, l := range listings {
			fmt.Printf("%s  %s  $%.2f (%s)\n", l.ID, l.Title, l.Price, l.Location)
		}
		return nil
	},
}

var marketViewCmd = &cobra.Command{
	Use:   "view <listing-id>",
	Short: "Show one listing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := market.NewService(newAPIClient())
		listing, err := svc.Get(context.Background(), args[0])
		if err != nil {
			return err
		}
		printListing(listing)
		return nil
	},
}

var marketCheckoutCmd = &cobra.Command{
	Use:   "checkout <listing-id>",
	Short: "Start a checkout and print the payment link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := market.NewService(newAPIClient())
		session, err := svc.Checkout(context.Background(), args[0])
		if err != nil {
			return err
		}
		fmt.Println("Open this link to pay:")
		fmt.Println(session.URL)
		return nil
	},
}

func init() {
	marketCmd.AddCommand(marketBrowseCmd)
	marketCmd.AddCommand(marketViewCmd)
	marketCmd.AddCommand(marketCheckoutCmd)
}
