package main

// Exit codes
const (
	ExitSuccess       = 0 // Success
	ExitError         = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError   = 2 // Configuration error (unreadable or invalid config file)
	ExitDataError     = 3 // Invalid input (bad IRI, empty query, unknown example)
	ExitEndpointError = 4 // Endpoint unreachable, non-2xx status or malformed results
)
