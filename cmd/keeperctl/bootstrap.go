package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teamstore/keeper/pkg/audit"
	"github.com/teamstore/keeper/pkg/bootstrap"
	"github.com/teamstore/keeper/pkg/config"
	"github.com/teamstore/keeper/pkg/crypto"
	"github.com/teamstore/keeper/pkg/db"
	"github.com/teamstore/keeper/pkg/directory"
	"github.com/teamstore/keeper/pkg/identity"
	"github.com/teamstore/keeper/pkg/vault"
)

// bootstrapCmd represents the bootstrap command
var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap <file>",
	Short: "Seed a fresh instance from a YAML file",
	Long: `Seed a fresh keeper instance from a declarative YAML file:
administrator designations and initial projects with their assets.

The operator identity becomes the creator and owner of every seeded project.
Bootstrap is not idempotent; run it once against an empty database.

Example:
  keeperctl bootstrap --object-id 7f9c24e5-0a35-4e9f-9c7b-0f3d6a1b2c3d seed.yml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		objectID, _ := cmd.Flags().GetString("object-id")
		if objectID == "" {
			fmt.Fprintln(os.Stderr, "--object-id is required")
			os.Exit(1)
		}

		if err := runBootstrap(args[0], objectID); err != nil {
			fmt.Fprintf(os.Stderr, "Bootstrap failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(bootstrapCmd)
	bootstrapCmd.Flags().String("object-id", "", "directory object id of the operator")
}

func runBootstrap(file, objectID string) error {
	dataKeyB64 := os.Getenv("KEEPER_DATA_KEY")
	if dataKeyB64 == "" {
		return fmt.Errorf("KEEPER_DATA_KEY environment variable is required")
	}

	dataKey, err := base64.StdEncoding.DecodeString(dataKeyB64)
	if err != nil {
		return fmt.Errorf("bad KEEPER_DATA_KEY: %w", err)
	}

	cipher, err := crypto.NewStringCipherFromKey(dataKey)
	if err != nil {
		return fmt.Errorf("unable to initiate cipher: %w", err)
	}

	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}
	defer func() { _ = f.Close() }()

	seed, err := bootstrap.Parse(f)
	if err != nil {
		return err
	}

	gdb, err := db.Connect(db.Config{URL: db.URL()})
	if err != nil {
		return fmt.Errorf("unable to connect to DB: %w", err)
	}

	events, err := audit.NewStore(func() bool { return config.Get().AuditEnabled })
	if err != nil {
		return fmt.Errorf("unable to initiate audit store: %w", err)
	}
	defer func() { _ = events.Close() }()

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
	access := vault.NewAccessService(gdb, identities, events)
	projects := vault.NewProjectsService(gdb, cipher, identities, access, events)

	scope := identity.NewScope(&identity.Principal{ObjectID: objectID})
	ctx := context.Background()

	if err := seed.Apply(ctx, scope, identities, projects); err != nil {
		return err
	}

	fmt.Printf("Seeded %d administrator(s) and %d project(s)\n",
		len(seed.Administrators), len(seed.Projects))
	return nil
}
