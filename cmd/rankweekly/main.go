package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rankweekly",
		Short: "Build weekly Top-10 reports from daily ranking snapshots",
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(reportCmd())
	root.AddCommand(exportCmd())
	root.AddCommand(renderCmd())
	root.AddCommand(serveCmd())

	return root
}

func reportCmd() *cobra.Command {
	var (
		sources  []string
		noAlerts bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Aggregate the latest week and write digests, JSON and HTML",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(sources, noAlerts)
		},
	}

	cmd.Flags().StringSliceVar(&sources, "source", nil, "specific sources to report (e.g., oy_kor,amazon_us)")
	cmd.Flags().BoolVar(&noAlerts, "no-alerts", false, "skip Slack/webhook delivery")
	return cmd
}

func exportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export <source>",
		Short: "Export normalized snapshot rows as canonical CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(args[0], out)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: stdout)")
	return cmd
}

func renderCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the HTML report from the archived summaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(out)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: output dir)")
	return cmd
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server over the summary archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "server port (default: from config)")
	return cmd
}
