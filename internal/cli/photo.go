package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/matthewdavidson09/offboardctl/internal/ldapclient"
	"github.com/matthewdavidson09/offboardctl/internal/photo"
)

var photoCmd = &cobra.Command{
	Use:   "photo",
	Short: "Manage the directory-stored thumbnail photo",
}

var photoGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Fetch and preview an account's stored photo",
	Long: `Fetch the stored thumbnail photo and open it in the platform image viewer,
blocking until the viewer is closed. With --out the raw bytes are written to a
file instead and no viewer is opened.`,
	RunE: runPhotoGet,
}

var photoSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Resize a source image and store it as an account's photo",
	Long: `Read a source image file, render it onto the square thumbnail canvas with a
white background, re-encode it as JPEG and store it on the account.`,
	RunE: runPhotoSet,
}

func init() {
	rootCmd.AddCommand(photoCmd)
	photoCmd.AddCommand(photoGetCmd)
	photoCmd.AddCommand(photoSetCmd)

	photoGetCmd.Flags().String("user", "", "sAMAccountName of the account")
	photoGetCmd.Flags().String("out", "", "write the photo to this file instead of previewing")
	photoGetCmd.MarkFlagRequired("user")

	photoSetCmd.Flags().String("user", "", "sAMAccountName of the account")
	photoSetCmd.Flags().String("file", "", "path of the source image")
	photoSetCmd.MarkFlagRequired("user")
	photoSetCmd.MarkFlagRequired("file")
}

func runPhotoGet(cmd *cobra.Command, args []string) error {
	user, _ := cmd.Flags().GetString("user")
	out, _ := cmd.Flags().GetString("out")

	ldapCfg, err := ldapclient.ConfigFromEnv()
	if err != nil {
		return err
	}
	client, err := ldapclient.Connect(ldapCfg)
	if err != nil {
		return err
	}
	defer client.Close()

	if out != "" {
		return photo.SaveTo(client, user, out)
	}
	return photo.Preview(client, user)
}

func runPhotoSet(cmd *cobra.Command, args []string) error {
	user, _ := cmd.Flags().GetString("user")
	file, _ := cmd.Flags().GetString("file")

	// Fail fast before dialing anything.
	if _, err := os.Stat(file); err != nil {
		return fmt.Errorf("source image %s: %w", file, err)
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

	if err := photo.Assign(client, user, file, settings.photoOptions(), dryRun); err != nil {
		return err
	}

	if dryRun {
		color.New(color.FgYellow).Fprintf(cmd.OutOrStdout(), "Dry run: photo for %s was not stored.\n", user)
	} else {
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Photo stored for %s.\n", user)
	}
	return nil
}
