package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the cascade version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("cascade %s\n", Version)
		},
	}
}
