// Package audit provides the append-only audit trail for Keeper.
//
// Every security-relevant action produces an Event, which is persisted as a
// row in the events table inside the same transaction as the state change it
// documents, emitted as an RFC5424 syslog line, and optionally mirrored to a
// secondary audit database (AUDIT_DATABASE_URL). Event rows are never
// updated or deleted by the core.
package audit
