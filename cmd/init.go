package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/mdmanual/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize mdmanual configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the manual and writes a .mdmanual.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.RunWizard(cfgFile)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Run `mdmanual build` to generate the manual in %s.\n", cfg.OutputDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
