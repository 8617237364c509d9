package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teamstore/keeper/pkg/audit"
	"github.com/teamstore/keeper/pkg/config"
	"github.com/teamstore/keeper/pkg/crypto"
	"github.com/teamstore/keeper/pkg/db"
	"github.com/teamstore/keeper/pkg/identity"
	"github.com/teamstore/keeper/pkg/model"
	"github.com/teamstore/keeper/pkg/vault"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import projects exported from another instance",
	Long: `Import projects from a JSON file produced by keeperctl export.

Asset fields must decrypt under the local KEEPER_DATA_KEY; the import is
refused otherwise. The importing identity receives an Owner grant on every
imported project.

Example:
  keeperctl import --object-id 7f9c24e5-0a35-4e9f-9c7b-0f3d6a1b2c3d projects.json`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		objectID, _ := cmd.Flags().GetString("object-id")
		if objectID == "" {
			fmt.Fprintln(os.Stderr, "--object-id is required")
			os.Exit(1)
		}

		if err := runImport(args[0], objectID); err != nil {
			fmt.Fprintf(os.Stderr, "Import failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().String("object-id", "", "directory object id of the importing identity")
}

func runImport(file, objectID string) error {
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

	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}

	var projects []model.Project
	if err := json.Unmarshal(data, &projects); err != nil {
		return fmt.Errorf("failed to parse %s: %w", file, err)
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

	identities := vault.NewIdentityService(gdb, nil)
	access := vault.NewAccessService(gdb, identities, events)
	store := vault.NewProjectsService(gdb, cipher, identities, access, events)

	scope := identity.NewScope(&identity.Principal{ObjectID: objectID})
	ctx := context.Background()

	for i := range projects {
		// Grants reference identities from the source instance; only the
		// importing identity carries over.
		projects[i].AccessGrants = nil

		id, err := store.Import(ctx, scope, &projects[i])
		if err != nil {
			return fmt.Errorf("project %q: %w", projects[i].Title, err)
		}
		fmt.Printf("Imported %q as project %d\n", projects[i].Title, id)
	}

	fmt.Printf("Imported %d project(s)\n", len(projects))
	return nil
}
