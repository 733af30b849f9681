package main

// Exit codes for the prerender CLI. Any fatal error, including a triggered
// halt policy, exits 1.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// exitCodeFor returns the exit code for an error.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	return ExitFailure
}
