package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/jenian/vecguard/internal/app"
	"github.com/jenian/vecguard/internal/config"
	"github.com/jenian/vecguard/internal/output"
	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags
var Version = "dev"

var (
	rootCmd = &cobra.Command{
		Use:   "vecguard",
		Short: "Flag risky indexed container accesses in C/C++ sources",
		Long:  "A CLI tool that scans C-family source files for literal-index container accesses and missing empty() checks.",
	}

	scanCmd = &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan a directory or file for risky container accesses",
		Long:  "Recursively scan a directory for name[N], name.at(N) and name.empty() patterns and report per file.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScan,
	}

	initConfigCmd = &cobra.Command{
		Use:   "init-config",
		Short: "Create a .vecguard.config file in the current directory",
		Long:  "Creates a .vecguard.config file with default configuration in the current directory.",
		RunE:  runInitConfig,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Long:  "Print the version number of vecguard",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(Version)
		},
	}

	// Flags
	scanPath     string
	extensions   []string
	includeGlobs []string
	excludeGlobs []string
	jsonOutput   bool
	silent       bool
	debug        bool
	strict       bool
	summary      bool
	noColor      bool
	jobs         int
	maxFiles     int
)

func init() {
	scanCmd.Flags().StringVarP(&scanPath, "path", "p", ".", "Path to scan (default: current directory)")
	scanCmd.Flags().StringSliceVar(&extensions, "ext", []string{}, "File suffixes to analyze (default: .cpp, .hpp, .h)")
	scanCmd.Flags().StringSliceVar(&includeGlobs, "include", []string{}, "Glob patterns to include")
	scanCmd.Flags().StringSliceVar(&excludeGlobs, "exclude", []string{}, "Glob patterns to exclude")
	scanCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")
	scanCmd.Flags().BoolVar(&silent, "silent", false, "Silent mode (exit code only)")
	scanCmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")
	scanCmd.Flags().BoolVar(&strict, "strict", false, "Stop at the first file that cannot be read")
	scanCmd.Flags().BoolVar(&summary, "summary", false, "Print a summary line to stderr")
	scanCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	scanCmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "Files analyzed concurrently (default: 1 or limits.jobs)")
	scanCmd.Flags().IntVar(&maxFiles, "max-files", 0, "Fail if more than this many files match (0 = unlimited)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(initConfigCmd)
	rootCmd.AddCommand(versionCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	path := scanPath
	if len(args) > 0 {
		path = args[0]
	}

	opts := app.Options{
		Path:         path,
		Extensions:   extensions,
		IncludeGlobs: includeGlobs,
		ExcludeGlobs: excludeGlobs,
		Jobs:         jobs,
		MaxFiles:     maxFiles,
		JSON:         jsonOutput,
		Silent:       silent,
		Debug:        debug,
		Strict:       strict,
		Summary:      summary,
		Color:        !noColor && !jsonOutput && output.ColorSupported(),
	}

	result, err := app.Run(cmd.Context(), opts, os.Stdout, os.Stderr)
	if err != nil {
		return err
	}

	if output.HasWarnings(result.Reports) || result.Stats.Failed > 0 {
		os.Exit(1)
	}

	return nil
}

func runInitConfig(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(config.FileName); err == nil {
		return fmt.Errorf("%s already exists in the current directory", config.FileName)
	}

	if err := os.WriteFile(config.FileName, []byte(config.DefaultContent), 0644); err != nil {
		return fmt.Errorf("failed to create %s: %w", config.FileName, err)
	}

	fmt.Printf("Created %s in the current directory\n", config.FileName)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
