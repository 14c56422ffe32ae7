package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dkovach/encore-cli/internal/stripeconnect"
)

var payoutsCmd = &cobra.Command{
	Use:   "payouts",
	Short: "Manage Stripe payout onboarding",
}

var payoutsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show your payout account status",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := stripeconnect.NewService(newAPIClient())
		st, err := svc.Status(context.Background())
		if err != nil {
			return err
		}
		if !st.Onboarded {
			fmt.Println("Payouts are not set up yet. Run: encore-cli payouts onboard")
			return nil
		}
		fmt.Println("Account:", st.AccountID)
		if st.PayoutsEnabled {
			fmt.Println("Payouts are enabled.")
		} else {
			fmt.Println("Onboarding is incomplete. Run: encore-cli payouts refresh")
		}
		return nil
	},
}

var payoutsOnboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Start payout onboarding and print the Stripe link",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := stripeconnect.NewService(newAPIClient())
		link, err := svc.Onboard(context.Background())
		if err != nil {
			return err
		}
		fmt.Println("Open this link in your browser to finish onboarding:")
		fmt.Println(link.URL)
		return nil
	},
}

var payoutsRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Get a fresh onboarding link for an unfinished account",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := stripeconnect.NewService(newAPIClient())
		link, err := svc.Refresh(context.Background())
		if err != nil {
			return err
		}
		fmt.Println("Open this link in your browser to continue onboarding:")
		fmt.Println(link.URL)
		return nil
	},
}

func init() {
	payoutsCmd.AddCommand(payoutsStatusCmd)
	payoutsCmd.AddCommand(payoutsOnboardCmd)
	payoutsCmd.AddCommand(payoutsRefreshCmd)
}
