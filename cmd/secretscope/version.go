package secretscope

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the secretscope version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println("secretscope", version)
		},
	})
}
