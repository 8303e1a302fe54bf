package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/mdmanual/internal/progress"
)

var buildCmd = &cobra.Command{
	Use:   "build [input_dir] [output_dir] [title] [author]",
	Short: "Generate the HTML manual",
	Long: `Converts every markdown file in input_dir into a page of the manual and
writes the manual to output_dir. Positional arguments override the config
file; the title defaults to "Reference Manual" and the author to none.`,
	Args: cobra.MaximumNArgs(4),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().Bool("no-prerender", false, "leave navigation and table of contents to the browser script")
	buildCmd.Flags().Bool("recursive", false, "include markdown files in subdirectories")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	positional := []*string{&cfg.InputDir, &cfg.OutputDir, &cfg.Title, &cfg.Author}
	for i, arg := range args {
		*positional[i] = arg
	}
	if noPrerender, _ := cmd.Flags().GetBool("no-prerender"); noPrerender {
		cfg.Prerender = false
	}
	if cmd.Flags().Changed("recursive") {
		cfg.Recursive, _ = cmd.Flags().GetBool("recursive")
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, _, err := buildManual(ctx, cfg, progress.NewReporter())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Manual generated successfully in: %s (%d pages, %d unchanged, %s)\n",
		cfg.OutputDir, stats.Pages, stats.Unchanged, stats.Duration.Round(1e6))
	return nil
}
