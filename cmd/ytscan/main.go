// Command ytscan runs the channel transcript pipeline from the command line.
// Reports go to stdout as JSON; failures print the error object to stderr.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/anatolykoptev/go_ytchannel/internal/toolutil"
)

func main() {
	if err := execute(); err != nil {
		if errors.Is(err, errUnhealthy) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, string(toolutil.ErrorJSON(err)))
		os.Exit(1)
	}
}
