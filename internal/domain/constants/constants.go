// Package constants holds shared domain-level constant values.
package constants

// Pub/Sub provider types.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// Gateway actions dispatched by the journal endpoint.
const (
	ActionCreateEntry    = "createEntry"
	ActionGetEntry       = "getEntry"
	ActionUpdateEntry    = "updateEntry"
	ActionGetUserEntries = "getUserEntries"
	ActionDeleteEntry    = "deleteEntry"
)
