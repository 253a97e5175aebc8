// devdata is a developer tool for switching ~/.maildesk between datasets.
package main

import (
	"fmt"
	"os"

	"github.com/maildesk/maildesk/tools/devdata/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "devdata: %v\n", err)
		os.Exit(1)
	}
}
