package cmd

import (
	"github.com/spf13/cobra"
)

// Version is stamped at build time.
var Version = "dev"

// NewRootCmd assembles the cascade command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cascade",
		Short: "Scripted multi-persona demo of a strategic decision cascade",
		Long: `cascade plays a timed, voice-accompanied dialogue showing how a
strategic decision moves from the Digital Twin briefing through the CEO
to the VPs. Narration advances automatically on the audio schedule;
decision points wait for you.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(NewRunCmd())
	rootCmd.AddCommand(NewScriptsCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}
