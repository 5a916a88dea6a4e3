package main

import (
	"github.com/spf13/cobra"

	"github.com/nhle/taskspace/internal/credential"
	"github.com/nhle/taskspace/internal/model"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage the admin password",
	Long: `Manage the admin password checked by POST /api/admin/verify.

admin.password in the config file takes precedence over the keyring.`,
}

var adminSetPasswordCmd = &cobra.Command{
	Use:   "set-password",
	Short: "Store the admin password in the OS keyring",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		pw, err := promptPassword("Admin password", true)
		if err != nil {
			return err
		}
		v, err := credential.Open()
		if err != nil {
			return err
		}
		if err := v.Set(credential.AdminPasswordKey, pw); err != nil {
			return err
		}
		done(cmd.OutOrStdout(), "admin password saved to keyring")
		return nil
	},
}

var adminClearPasswordCmd = &cobra.Command{
	Use:   "clear-password",
	Short: "Remove the admin password from the OS keyring",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		v, err := credential.Open()
		if err != nil {
			return err
		}
		if err := v.Delete(credential.AdminPasswordKey); err != nil {
			return err
		}
		done(cmd.OutOrStdout(), "admin password removed from keyring")
		return nil
	},
}

var adminInitConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Write the effective configuration to the config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := model.SaveConfig(configPath, cfg); err != nil {
			return err
		}
		done(cmd.OutOrStdout(), "config written to "+configPath)
		return nil
	},
}

func init() {
	adminCmd.AddCommand(adminSetPasswordCmd, adminClearPasswordCmd, adminInitConfigCmd)
}
