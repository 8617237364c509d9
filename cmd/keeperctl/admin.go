package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teamstore/keeper/pkg/config"
	"github.com/teamstore/keeper/pkg/db"
	"github.com/teamstore/keeper/pkg/directory"
	"github.com/teamstore/keeper/pkg/identity"
	"github.com/teamstore/keeper/pkg/model"
	"github.com/teamstore/keeper/pkg/vault"
)

// adminCmd represents the admin command
var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage global administrators",
	Long:  `Manage the identities designated as global administrators.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'admin' requires a subcommand (grant, revoke)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

var adminGrantCmd = &cobra.Command{
	Use:   "grant",
	Short: "Designate an identity as administrator",
	Long: `Designate an identity as a global administrator.

The target is addressed by UPN or by directory object id. Unseen identities
are resolved against the directory and provisioned.

Example:
  keeperctl admin grant --upn alice@example.com
  keeperctl admin grant --object-id 7f9c24e5-0a35-4e9f-9c7b-0f3d6a1b2c3d`,
	Run: func(cmd *cobra.Command, args []string) {
		runAdminChange(cmd, true)
	},
}

var adminRevokeCmd = &cobra.Command{
	Use:   "revoke",
	Short: "Remove an identity's administrator designation",
	Run: func(cmd *cobra.Command, args []string) {
		runAdminChange(cmd, false)
	},
}

func init() {
	rootCmd.AddCommand(adminCmd)
	adminCmd.AddCommand(adminGrantCmd)
	adminCmd.AddCommand(adminRevokeCmd)

	for _, cmd := range []*cobra.Command{adminGrantCmd, adminRevokeCmd} {
		cmd.Flags().String("upn", "", "target user principal name")
		cmd.Flags().String("object-id", "", "target directory object id")
	}
}

func runAdminChange(cmd *cobra.Command, grant bool) {
	upn, _ := cmd.Flags().GetString("upn")
	objectID, _ := cmd.Flags().GetString("object-id")
	if upn == "" && objectID == "" {
		fmt.Fprintln(os.Stderr, "either --upn or --object-id is required")
		os.Exit(1)
	}

	gdb, err := db.Connect(db.Config{URL: db.URL()})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
		os.Exit(1)
	}

	cfg := config.Get()
	var dir directory.Service
	if cfg.DirectoryURL != "" {
		dir = directory.NewLDAPService(
			cfg.DirectoryURL,
			cfg.DirectoryBaseDN,
			cfg.DirectoryBindDN,
			os.Getenv("KEEPER_DIRECTORY_BIND_PASSWORD"),
			"",
		)
	}

	identities := vault.NewIdentityService(gdb, dir)
	scope := identity.NewScope(nil)
	ctx := context.Background()

	var target *model.Identity
	if upn != "" {
		target, err = identities.ResolveByUPN(ctx, scope, upn)
	} else {
		target, err = identities.ResolveOrProvision(ctx, scope, objectID)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Unable to resolve identity:", err)
		os.Exit(1)
	}

	if grant {
		err = identities.GrantAdministrator(ctx, scope, target)
	} else {
		err = identities.RevokeAdministrator(ctx, scope, target)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Operation failed:", err)
		os.Exit(1)
	}

	action := "granted to"
	if !grant {
		action = "revoked from"
	}
	fmt.Printf("Administrator %s %s\n", action, target.ObjectID)
}
