package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/olehluchkiv/depscan/internal/diagram"
	"github.com/olehluchkiv/depscan/internal/scanner"
)

// ScanCmd creates the 'scan' command: the full analysis pipeline.
func ScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan a project tree and write analysis reports",
		Long: `Scan walks the project tree, parses every Python source file, and writes
project_analysis.json, test_analysis.json, chatgpt_project_context.json,
and duplication_report.yaml to the output directory.

Options may also be set in a depscan.yml file at the project root; flags
take precedence over the config file.`,
		RunE: runScan,
	}

	cmd.Flags().String("project-root", ".", "project directory to analyze")
	cmd.Flags().String("output", "", "directory for output reports (required)")
	cmd.Flags().Int("max-workers", 4, "bound on the per-batch worker pool")
	cmd.Flags().StringSlice("ignore", nil, "additional glob ignore patterns, merged with built-ins")
	cmd.Flags().StringSlice("include-dirs", nil, "restrict the walk to these top-level directories")
	cmd.Flags().Bool("fuzzy-imports", false, "enable permissive substring import resolution")
	cmd.Flags().String("mermaid", "", "also write a Mermaid dependency diagram to this file")

	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	logger, cleanup, err := setupLogging(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	root, err := cmd.Flags().GetString("project-root")
	if err != nil {
		return err
	}

	v, err := loadConfig(cmd, root)
	if err != nil {
		return err
	}

	opts := scanner.Options{
		ProjectRoot:    root,
		OutputDir:      v.GetString("output"),
		MaxWorkers:     v.GetInt("max-workers"),
		IgnorePatterns: v.GetStringSlice("ignore"),
		IncludeDirs:    v.GetStringSlice("include-dirs"),
		FuzzyImports:   v.GetBool("fuzzy-imports"),
	}
	if opts.OutputDir == "" {
		return fmt.Errorf("--output is required (or set output in depscan.yml)")
	}

	fmt.Println("Scanning project...")
	result, err := scanner.New(opts, logger).Run(cmd.Context())
	if err != nil {
		logger.Error("scan failed", "error", err)
		return err
	}

	pa := result.Analysis
	fmt.Printf("Analyzed %d source files, %d test files (%d skipped, %d errors)\n",
		len(pa.Files), len(pa.TestFiles), len(pa.SkippedFiles), len(pa.Errors))
	fmt.Printf("Found %d dependency cycles, %d core components, %d duplicate groups\n",
		len(pa.CircularDependencies), len(pa.CoreComponents), result.Duplicates.TotalGroups())
	fmt.Printf("Reports written to %s\n", opts.OutputDir)

	mermaidPath, err := cmd.Flags().GetString("mermaid")
	if err != nil {
		return err
	}
	if mermaidPath != "" {
		content := diagram.GenerateMermaid(pa)
		if err := os.WriteFile(mermaidPath, []byte(content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", mermaidPath, err)
		}
		fmt.Printf("Wrote dependency diagram to %s\n", mermaidPath)
	}
	return nil
}

// loadConfig layers an optional depscan.yml under the command's flags.
func loadConfig(cmd *cobra.Command, root string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigName("depscan")
	v.SetConfigType("yaml")
	v.AddConfigPath(root)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading depscan.yml: %w", err)
		}
	}

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	return v, nil
}
