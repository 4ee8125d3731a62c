package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/matthewdavidson09/offboardctl/internal/active_directory"
	"github.com/matthewdavidson09/offboardctl/internal/gal"
	"github.com/matthewdavidson09/offboardctl/internal/ldapclient"
	"github.com/matthewdavidson09/offboardctl/tools"
)

var visibilityCmd = &cobra.Command{
	Use:   "visibility",
	Short: "Show or hide an account in the global address list",
	Long: `Set the mail-system visibility flag for one account. The mail address is
resolved from the directory unless --email is given directly.

Examples:
  offboardctl visibility --user jsmith --hidden
  offboardctl visibility --email jsmith@corp.example.com --visible`,
	RunE: runVisibility,
}

func init() {
	rootCmd.AddCommand(visibilityCmd)

	visibilityCmd.Flags().String("user", "", "sAMAccountName to resolve the mail address from")
	visibilityCmd.Flags().String("email", "", "mail address (skips the directory lookup)")
	visibilityCmd.Flags().Bool("hidden", false, "hide the account from address lists")
	visibilityCmd.Flags().Bool("visible", false, "show the account in address lists")
	visibilityCmd.MarkFlagsMutuallyExclusive("hidden", "visible")
	visibilityCmd.MarkFlagsOneRequired("hidden", "visible")
	visibilityCmd.MarkFlagsOneRequired("user", "email")
	visibilityCmd.MarkFlagsMutuallyExclusive("user", "email")
}

func runVisibility(cmd *cobra.Command, args []string) error {
	user, _ := cmd.Flags().GetString("user")
	email, _ := cmd.Flags().GetString("email")
	hidden, _ := cmd.Flags().GetBool("hidden")

	if email == "" {
		ldapCfg, err := ldapclient.ConfigFromEnv()
		if err != nil {
			return err
		}
		client, err := ldapclient.Connect(ldapCfg)
		if err != nil {
			return err
		}
		defer client.Close()

		adUser, err := active_directory.GetUserBySAM(client, user)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", user, err)
		}
		if adUser.Email == "" {
			return fmt.Errorf("account %s has no mail address", user)
		}
		email = adUser.Email
	}

	visible := !hidden

	if dryRun {
		tools.Log.Infof("[DRY] Set address list visibility of %s to %t", email, visible)
		return nil
	}

	svc, err := gal.NewService(context.Background())
	if err != nil {
		return fmt.Errorf("mail system unavailable: %w", err)
	}
	if err := svc.SetVisibility(email, visible); err != nil {
		return err
	}

	state := "visible in"
	if hidden {
		state = "hidden from"
	}
	color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "%s is now %s the address list.\n", email, state)
	return nil
}
