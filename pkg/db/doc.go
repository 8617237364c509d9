// Package db provides database connection utilities for Keeper.
package db
