/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
// Package exitcode provides standardized exit codes for lineage
package exitcode

// Exit codes for the lineage CLI
const (
	Success         = 0
	GeneralError    = 1
	UsageError      = 2 // invalid arguments or configuration
	ValidationError = 3 // the requested move breaks a hierarchy rule
	FileSystemError = 4 // staging directory could not be prepared or written
	NetworkError    = 5 // the database could not be reached
	TimeoutError    = 7
	NotFound        = 10 // a contact or parent id does not exist
	MalformedData   = 11 // a stored document carries an unreadable lineage
)

// String returns a human-readable description of the exit code
func String(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error"
	case ValidationError:
		return "Validation error"
	case FileSystemError:
		return "File system error"
	case NetworkError:
		return "Network error"
	case TimeoutError:
		return "Timeout error"
	case NotFound:
		return "Not found"
	case MalformedData:
		return "Malformed data"
	default:
		return "Unknown error"
	}
}
