package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/amosWeiskopf/pagecrawl/pkg/crawler"
)

// NewExpectedCmd creates the expected command, which prints the most pages a
// crawl with the given bounds can visit.
func NewExpectedCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expected",
		Short: "Print the maximum number of visits for a breadth and depth",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, v)
			if err != nil {
				return err
			}

			breadth, depth := cfg.Crawler.MaxBreadth, cfg.Crawler.MaxDepth
			if cmd.Flags().Changed("max-breadth") {
				breadth, _ = cmd.Flags().GetInt("max-breadth")
			}
			if cmd.Flags().Changed("max-depth") {
				depth, _ = cmd.Flags().GetInt("max-depth")
			}
			if breadth < 0 || depth < 0 {
				return fmt.Errorf("max breadth and depth must not be negative")
			}

			expected := crawler.ExpectedVisits(breadth, depth)
			fmt.Fprintf(cmd.OutOrStdout(), "%d\n", expected)
			if expected > cfg.Crawler.MaxExpectedVisits {
				fmt.Fprintf(cmd.ErrOrStderr(), "exceeds the configured limit of %d visits\n",
					cfg.Crawler.MaxExpectedVisits)
			}
			return nil
		},
	}

	cmd.Flags().Int("max-breadth", 3, "Maximum new links followed per page")
	cmd.Flags().Int("max-depth", 2, "Maximum depth, counting the start page")

	return cmd
}
