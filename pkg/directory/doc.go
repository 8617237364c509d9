// Package directory resolves user and group principals against the external
// directory service. The core only provisions identities through this
// package; it never invents principals on its own.
package directory
