// Package cli contains all offboardctl commands.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/matthewdavidson09/offboardctl/tools"
)

var (
	cfgFile  string
	verbose  bool
	dryRun   bool
	settings Settings
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "offboardctl",
	Short: "Account offboarding and photo management for the corporate directory",
	Long: `offboardctl runs the administrative offboarding steps against Active
Directory and Google Workspace: disabling an account, annotating it, moving it
to the archive OU, stripping group memberships and hiding it from the global
address list. It also reads and assigns the directory-stored thumbnail photo.

Example usage:
  offboardctl offboard --user jsmith --ticket INC-4711 --requested-by "HR Ops" --confirm yes
  offboardctl offboard --user jsmith --ticket INC-4711 --requested-by "HR Ops" --dry-run
  offboardctl visibility --user jsmith --hidden
  offboardctl photo get --user jsmith
  offboardctl photo set --user jsmith --file ./badge.png`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		tools.InitLogger(verbose)
		var err error
		settings, err = LoadSettings(cfgFile)
		return err
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .offboardctl.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "log intended changes without applying them")
}
