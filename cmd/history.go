package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/mdmanual/internal/buildcache"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent builds recorded in the build cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")

		path := cachePath(cfg)
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("no build cache at %s\nRun `mdmanual build` first", path)
		}
		cache, err := buildcache.Open(path)
		if err != nil {
			return err
		}
		defer cache.Close()

		ctx := context.Background()
		builds, err := cache.RecentBuilds(ctx, limit)
		if err != nil {
			return err
		}
		if len(builds) == 0 {
			fmt.Println("No builds recorded.")
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "BUILD\tSTARTED\tSTATUS\tPAGES\tUNCHANGED")
		for _, b := range builds {
			pages, err := cache.BuildPages(ctx, b.ID)
			if err != nil {
				return err
			}
			unchanged := 0
			for _, p := range pages {
				if p.Unchanged {
					unchanged++
				}
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n",
				b.ID[:8], b.StartedAt.Local().Format("2006-01-02 15:04:05"), b.Status, b.PageCount, unchanged)
		}
		return tw.Flush()
	},
}

func init() {
	historyCmd.Flags().Int("limit", 10, "number of builds to show")
	rootCmd.AddCommand(historyCmd)
}
