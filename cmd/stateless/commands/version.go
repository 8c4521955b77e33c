package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stateless-solutions/stateless-go/version"
)

// VersionCmd prints the version of the client.
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version info",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Version)
	},
}
