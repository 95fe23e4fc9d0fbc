package cmd

import (
	"github.com/spf13/cobra"
)

// Version is set at build time:
// go build -ldflags "-X github.com/iburimskiy/landing-motion/cmd.Version=1.0.0"
var Version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// Printing the version needs neither config nor logger.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("landing %s\n", Version)
		},
	}
}
