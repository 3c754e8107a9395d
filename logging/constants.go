package logging

// Keys attached to log events through NewSubLogger.
const (
	// SERVICE_KEY identifies the package which emitted a log event
	SERVICE_KEY = "service"
	// RUN_ID_KEY identifies the sync run which emitted a log event
	RUN_ID_KEY = "runID"
)

// These constants are used to identify the various services that may do some logging
const (
	// CLI_SERVICE is the constant used to identify the cmd package
	CLI_SERVICE = "cli"
	// SYNC_SERVICE is the constant used to identify the artifacts package
	SYNC_SERVICE = "sync"
	// ONCHAIN_SERVICE is the constant used to identify the onchain package
	ONCHAIN_SERVICE = "onchain"
)
