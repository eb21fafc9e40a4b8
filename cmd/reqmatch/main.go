// reqmatch CLI - validate expectation files, route requests against them,
// or serve them over HTTP.
package main

import "github.com/getmockd/reqmatch/pkg/cli"

// Build-time variables set via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	cli.Version = Version
	cli.Commit = Commit
	cli.Execute()
}
