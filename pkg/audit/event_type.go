package audit

//go:generate go run github.com/dmarkham/enumer -type EventType -trimprefix EventType -output event_type.gen.go

// EventType enumerates the security-relevant actions recorded by the core.
// The stringified value is what lands in the events table; the set is closed
// and values are never renamed once persisted.
type EventType int

const (
	EventTypeProjectCreated EventType = iota
	EventTypeProjectArchived
	EventTypeAccessGranted
	EventTypeAccessRevoked
	EventTypeAssetCreated
	EventTypeAssetModified
	EventTypeAssetArchived
)
