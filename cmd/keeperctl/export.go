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
	"github.com/teamstore/keeper/pkg/vault"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export projects for migration",
	Long: `Export non-archived projects, their access grants and their assets to a
JSON file for migration to another keeper instance.

The exporting identity sees what it would see through the API: its own
projects, or everything if it is an administrator. Project metadata is
exported as plaintext; asset fields stay encrypted under the data key. The
receiving instance must run with the same KEEPER_DATA_KEY, and verifies this
at import time by decrypting every field.

Example:
  keeperctl export --object-id 7f9c24e5-0a35-4e9f-9c7b-0f3d6a1b2c3d --out projects.json`,
	Run: func(cmd *cobra.Command, args []string) {
		objectID, _ := cmd.Flags().GetString("object-id")
		if objectID == "" {
			fmt.Fprintln(os.Stderr, "--object-id is required")
			os.Exit(1)
		}

		out, _ := cmd.Flags().GetString("out")
		if err := runExport(out, objectID); err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().String("object-id", "", "directory object id of the exporting identity")
	exportCmd.Flags().StringP("out", "o", "projects.json", "output file")
}

func runExport(out, objectID string) error {
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

	projects, err := store.List(ctx, scope, vault.ListOptions{SkipDecryption: true})
	if err != nil {
		return fmt.Errorf("failed to load projects: %w", err)
	}

	// Metadata travels as plaintext; asset fields stay ciphertext.
	for i := range projects {
		p := &projects[i]
		for _, field := range []*string{&p.Title, &p.Description, &p.Category} {
			plain, err := cipher.DecryptString(*field)
			if err != nil {
				return fmt.Errorf("project %d: %w", p.ID, err)
			}
			*field = plain
		}
	}

	data, err := json.MarshalIndent(projects, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal projects: %w", err)
	}

	if err := os.WriteFile(out, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	fmt.Printf("Exported %d project(s) to %s\n", len(projects), out)
	return nil
}
