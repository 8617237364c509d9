// Package config manages Keeper configuration from file and environment.
//
// Settings load from keeper.yml (path via KEEPER_CONFIG_PATH) and are
// overridden by KEEPER_* environment variables. Each attribute tracks the
// source it was loaded from for the configuration show command.
package config
