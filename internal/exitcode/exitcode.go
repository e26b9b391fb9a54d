// Package exitcode defines exit codes for the CLI.
package exitcode

import "taskdeck/internal/service"

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown task id).
	UserError = 1

	// AuthError indicates an auth/config error.
	AuthError = 2

	// BackendError indicates a backend/API/network error.
	BackendError = 3
)

// FromError maps a failed backend call to an exit code.
// A session rejected by the server (401/403) is an auth error.
func FromError(err error) int {
	if err == nil {
		return Success
	}
	if service.IsAuth(err) {
		return AuthError
	}
	return BackendError
}
