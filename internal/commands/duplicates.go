package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/olehluchkiv/depscan/internal/duplicates"
	"github.com/olehluchkiv/depscan/internal/scanner"
)

// DuplicatesCmd creates the 'duplicates' command: the standalone duplicate
// report, without the full dependency analysis.
func DuplicatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "duplicates",
		Short: "Report duplicated functions and classes as YAML",
		RunE:  runDuplicates,
	}

	cmd.Flags().String("project-root", ".", "project directory to analyze")
	cmd.Flags().String("output", "", "report file (default stdout)")
	cmd.Flags().Int("max-workers", 4, "bound on the worker pool")
	cmd.Flags().StringSlice("ignore", nil, "additional glob ignore patterns, merged with built-ins")

	return cmd
}

func runDuplicates(cmd *cobra.Command, args []string) error {
	logger, cleanup, err := setupLogging(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	rootFlag, err := cmd.Flags().GetString("project-root")
	if err != nil {
		return err
	}
	root, err := scanner.Resolve(rootFlag, logger)
	if err != nil {
		return err
	}
	ignore, err := cmd.Flags().GetStringSlice("ignore")
	if err != nil {
		return err
	}
	workers, err := cmd.Flags().GetInt("max-workers")
	if err != nil {
		return err
	}

	candidates, _, err := scanner.Discover(root, ignore, nil)
	if err != nil {
		return fmt.Errorf("walking %s: %w", root, err)
	}

	var sources, tests []string
	for _, path := range candidates {
		if filepath.Ext(path) != ".py" {
			continue
		}
		if scanner.IsTestFile(path) {
			tests = append(tests, path)
		} else {
			sources = append(sources, path)
		}
	}

	det := &duplicates.Detector{MaxWorkers: workers, Logger: logger}
	groups, err := det.Scan(cmd.Context(), sources)
	if err != nil {
		return err
	}
	testGroups, err := det.ScanTests(cmd.Context(), tests)
	if err != nil {
		return err
	}
	report := duplicates.BuildReport(groups, testGroups)

	outPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	if outPath == "" {
		return report.Encode(cmd.OutOrStdout())
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer f.Close()
	if err := report.Encode(f); err != nil {
		return err
	}
	fmt.Printf("Wrote duplicate report to %s\n", outPath)
	return nil
}
