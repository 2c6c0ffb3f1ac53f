package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "vsradar",
		Short: "Daily community-ranked shorts feed and trending headlines radar",
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")

	root.AddCommand(serveCmd())
	root.AddCommand(feedCmd())
	root.AddCommand(newsCmd())
	root.AddCommand(leadersCmd())

	return root
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "server port (default: from config)")
	return cmd
}

func feedCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Print today's ranked video feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFeed(jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}

func newsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "news",
		Short: "Print trending headlines",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNews(jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}

func leadersCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "leaders",
		Short: "Show past daily winners",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLeaders(limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 30, "max winners to show")
	return cmd
}
