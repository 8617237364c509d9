package main

import (
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/teamstore/keeper/pkg/audit"
	"github.com/teamstore/keeper/pkg/config"
	"github.com/teamstore/keeper/pkg/crypto"
	"github.com/teamstore/keeper/pkg/db"
	"github.com/teamstore/keeper/pkg/directory"
	"github.com/teamstore/keeper/pkg/server"
	"github.com/teamstore/keeper/pkg/server/endpoints"
	"github.com/teamstore/keeper/pkg/server/middleware"
	"github.com/teamstore/keeper/pkg/vault"
)

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

func defaultPortInt() int {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	return 8000
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the keeper application server",
	Long: `Run the keeper application server.

Requires the environment variables KEEPER_DATA_KEY, KEEPER_TOKEN_SECRET
and DATABASE_URL.

By default, database migrations are run on startup. Use --no-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		dataKeyB64, ok := os.LookupEnv("KEEPER_DATA_KEY")
		if !ok {
			fmt.Fprintln(os.Stderr, "KEEPER_DATA_KEY environment variable is required")
			os.Exit(1)
		}

		tokenSecret := os.Getenv("KEEPER_TOKEN_SECRET")
		if tokenSecret == "" {
			fmt.Fprintln(os.Stderr, "KEEPER_TOKEN_SECRET environment variable is required")
			os.Exit(1)
		}

		if os.Getenv("DATABASE_URL") == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}

		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			log.Println("Running database migrations...")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		dataKey, err := base64.StdEncoding.DecodeString(dataKeyB64)
		if err != nil {
			fmt.Println("Bad KEEPER_DATA_KEY:", err)
			os.Exit(1)
		}

		cipher, err := crypto.NewStringCipherFromKey(dataKey)
		if err != nil {
			fmt.Println("Unable to initiate cipher:", err)
			os.Exit(1)
		}

		gdb, err := db.Connect(db.Config{URL: os.Getenv("DATABASE_URL")})
		if err != nil {
			fmt.Println("Unable to connect to DB:", err)
			os.Exit(1)
		}

		cfg := config.Get()

		// Reload keeper.yml on change for the lifetime of the server.
		stop := make(chan struct{})
		defer close(stop)
		go func() {
			if err := config.Watch(stop); err != nil {
				log.Printf("config watch stopped: %v", err)
			}
		}()

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

		events, err := audit.NewStore(func() bool { return config.Get().AuditEnabled })
		if err != nil {
			fmt.Println("Unable to initiate audit store:", err)
			os.Exit(1)
		}
		defer func() { _ = events.Close() }()

		identities := vault.NewIdentityService(gdb, dir)
		access := vault.NewAccessService(gdb, identities, events)
		projects := vault.NewProjectsService(gdb, cipher, identities, access, events)
		assets := vault.NewAssetsService(gdb, cipher, identities, access, events)

		authenticator := middleware.NewHMACAuthenticator([]byte(tokenSecret))

		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		s := server.NewServer(gdb, authenticator, projects, assets, access, identities, host, port)

		endpoints.RegisterAll(s)

		log.Printf("Running server at http://%s:%s...\n", host, port)
		log.Fatal(s.Start())
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}
