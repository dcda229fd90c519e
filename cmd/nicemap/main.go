// Command nicemap renders the top-ranked children for a period as an
// interactive HTML map.
//
// Usage:
//
//	nicemap render --db kids.db --period 2025 --limit 3 --output top3_sages_map.html
//	nicemap top --format json
package main

import (
	"os"

	"github.com/roach88/nicemap/internal/cli"
)

func main() {
	// Commands report their own errors; only the exit code is left to set.
	err := cli.NewRootCommand().Execute()
	os.Exit(cli.GetExitCode(err))
}
