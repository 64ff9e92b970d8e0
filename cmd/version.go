package cmd

import (
	"runtime"
	"slices"
	"strings"

	"github.com/huangsam/paysheet/schema"
	"github.com/spf13/cobra"
)

// versionCmd prints build details and the formats this build understands.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the paysheet version and build details",
	Long: `Print the release version, git commit, build time and Go runtime,
followed by the output modes and store backends compiled into this binary.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("paysheet %s (%s, built %s, %s)\n", version, commit, date, runtime.Version())
		cmd.Printf("  Outputs:  %s\n", joinKeys(schema.ValidOutputModes))
		cmd.Printf("  Backends: %s\n", joinKeys(schema.ValidDatabaseBackends))
	},
}

func joinKeys[K ~string](m map[K]struct{}) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, string(k))
	}
	slices.Sort(keys)
	return strings.Join(keys, ", ")
}
