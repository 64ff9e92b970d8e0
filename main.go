// main is the entry point for the paysheet CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/paysheet/cmd"
	"github.com/huangsam/paysheet/internal/iocache"
)

func main() {
	defer iocache.CloseCaching()
	cmd.SetCacheManager(iocache.Manager)
	if err := cmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		iocache.CloseCaching()
		os.Exit(1)
	}
}
