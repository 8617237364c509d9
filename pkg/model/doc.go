// Package model defines the database models for Keeper.
//
// This package contains GORM models mapping to the Keeper PostgreSQL schema.
//
// # Core Models
//
//   - Identity: user and group principals backed by a directory object id
//   - Project: a container of assets with at-rest-encrypted fields
//   - AccessGrant: (project, identity, role) authorization bindings
//   - Asset: credentials and notes owned by a project
//   - Administrator: global admin designations
//   - Event: append-only audit records
//
// Field-level encryption is applied by the vault services at the persistence
// edge, not by model hooks, so bulk export paths can opt out of decryption.
package model
