// encore-cli drives the Encore creative-marketplace dashboard from the
// terminal: profile management, media galleries, service pricing, the
// peer-to-peer marketplace, and payout onboarding.
package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dkovach/encore-cli/internal/api"
	"github.com/dkovach/encore-cli/internal/auth"
	"github.com/dkovach/encore-cli/internal/config"
	"github.com/dkovach/encore-cli/internal/logging"
	"github.com/dkovach/encore-cli/internal/validate"
)

var rootCmd = &cobra.Command{
	Use:   "encore-cli",
	Short: "Dashboard client for the Encore creative marketplace",
	Long: `encore-cli drives the Encore dashboard from the terminal: studio and
artist profiles, photo/audio/video galleries, service pricing, the
peer-to-peer marketplace, and Stripe payout onboarding.

Authentication reuses the browser session: export your cookies to
~/.encore-cli/cookies.txt or set ENCORE_TOKEN directly. The API origin
comes from NEXT_PUBLIC_BASE_URL.

Examples:
  encore-cli listing show
  encore-cli listing edit --title "Vocal booth rental" --price 45 --add-photo booth.jpg
  encore-cli studio photos add front.jpg desk.png
  encore-cli market browse
  encore-cli export --out gallery.zip`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(listingCmd)
	rootCmd.AddCommand(marketCmd)
	rootCmd.AddCommand(studioCmd)
	rootCmd.AddCommand(artistCmd)
	rootCmd.AddCommand(payoutsCmd)
	rootCmd.AddCommand(sponsorsCmd)
	rootCmd.AddCommand(exportCmd)
}

func main() {
	logging.Init()
	if err := rootCmd.Execute(); err != nil {
		reportError(err)
		os.Exit(1)
	}
}

// newAPIClient wires the gateway to the session token and the global
// 401 policy.
func newAPIClient() *api.Client {
	return api.NewClient(config.BaseURL(), auth.Token, config.DefaultTimeout, auth.ClearCached)
}

// reportError prints a user-facing message for the error taxonomy:
// field validation, expired session, missing permission, server
// validation, and everything else.
func reportError(err error) {
	var fieldErrs validate.FieldErrors
	if errors.As(err, &fieldErrs) {
		fmt.Fprintln(os.Stderr, "Please fix the following before saving:")
		fmt.Fprintln(os.Stderr, "  "+fieldErrs.Error())
		return
	}

	if errors.Is(err, api.ErrUnauthorized) {
		fmt.Fprintln(os.Stderr, "Your session has expired. Sign in again in the browser and re-export your cookies.")
		return
	}

	switch api.StatusOf(err) {
	case http.StatusForbidden:
		fmt.Fprintln(os.Stderr, "Your account does not have permission for this action.")
	case http.StatusBadRequest:
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			fmt.Fprintln(os.Stderr, apiErr.Message)
			return
		}
		fmt.Fprintln(os.Stderr, "The server rejected the request.")
	default:
		log.Error().Err(err).Msg("Command failed")
		fmt.Fprintln(os.Stderr, "Something went wrong. Your changes were not saved; please try again.")
	}
}
