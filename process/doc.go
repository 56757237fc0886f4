// Package process runs external commands for the exec transform.
//
// Run executes one command to completion, killing its whole process group
// with SIGTERM and then SIGKILL when the context ends. Adapter fixes a
// command line and feeds it one input line per invocation.
package process
