package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/matthewdavidson09/offboardctl/internal/gal"
	"github.com/matthewdavidson09/offboardctl/internal/ldapclient"
	"github.com/matthewdavidson09/offboardctl/internal/offboard"
)

var offboardCmd = &cobra.Command{
	Use:   "offboard",
	Short: "Disable, archive and hide a directory account",
	Long: `Run the full offboarding sequence for one account: disable it, stamp the
description with the disablement date, ticket and requester, move it to the
archive OU when that OU exists, strip non-baseline group memberships and hide
it from the global address list.

The run mutates nothing unless --confirm yes is passed; --dry-run logs every
intended change instead of applying it.`,
	RunE: runOffboard,
}

func init() {
	rootCmd.AddCommand(offboardCmd)

	offboardCmd.Flags().String("user", "", "sAMAccountName of the account to offboard")
	offboardCmd.Flags().String("ticket", "", "ticket reference recorded on the account")
	offboardCmd.Flags().String("requested-by", "", "name of the requester recorded on the account")
	offboardCmd.Flags().String("confirm", "", `must be "yes" to apply changes`)
	offboardCmd.MarkFlagRequired("user")
	offboardCmd.MarkFlagRequired("ticket")
	offboardCmd.MarkFlagRequired("requested-by")
}

func runOffboard(cmd *cobra.Command, args []string) error {
	user, _ := cmd.Flags().GetString("user")
	ticket, _ := cmd.Flags().GetString("ticket")
	requestedBy, _ := cmd.Flags().GetString("requested-by")
	confirm, _ := cmd.Flags().GetString("confirm")

	opts := offboard.Options{
		User:        user,
		Ticket:      ticket,
		RequestedBy: requestedBy,
		Confirmed:   strings.EqualFold(strings.TrimSpace(confirm), "yes"),
		DryRun:      dryRun,
	}

	// Refuse before any connection is dialed.
	if !opts.Confirmed && !opts.DryRun {
		return fmt.Errorf("offboarding %s not confirmed: pass --confirm yes or --dry-run", user)
	}

	ldapCfg, err := ldapclient.ConfigFromEnv()
	if err != nil {
		return err
	}
	client, err := ldapclient.Connect(ldapCfg)
	if err != nil {
		return err
	}
	defer client.Close()

	var addressList offboard.AddressList
	if !opts.DryRun {
		svc, err := gal.NewService(context.Background())
		if err != nil {
			return fmt.Errorf("mail system unavailable: %w", err)
		}
		addressList = svc
	}

	res, err := offboard.Run(&offboard.LDAPDirectory{Client: client}, addressList, settings.offboardConfig(), opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if res.DryRun {
		color.New(color.FgYellow).Fprintf(out, "Dry run complete for %s: nothing was changed.\n", user)
	} else {
		color.New(color.FgGreen).Fprintf(out, "Offboarded %s.\n", user)
	}
	fmt.Fprintf(out, "  groups removed: %d, skipped: %d, failed: %d\n",
		len(res.RemovedGroups), len(res.SkippedGroups), len(res.GroupFailures))
	if res.TargetOU != "" {
		fmt.Fprintf(out, "  archive OU: %s (moved: %t)\n", res.TargetOU, res.Moved)
	}
	for _, w := range res.Warnings {
		color.New(color.FgYellow).Fprintf(out, "  warning: %s\n", w)
	}

	return nil
}
