package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/maildesk/maildesk/internal/mail"
	"github.com/maildesk/maildesk/tools/devdata/dataset"
)

var (
	newDataSrcFlag     string
	newDataDstFlag     string
	newDataEntriesFlag int
	newDataDryRun      bool
)

var newDataCmd = &cobra.Command{
	Use:   "new-data",
	Short: "Create a new dataset by copying N entries per mailbox from a source",
	Long:  "Creates a new dataset directory holding the newest N entries of each mailbox in the source dataset.",
	RunE:  runNewData,
}

func init() {
	newDataCmd.Flags().StringVar(&newDataSrcFlag, "src", "", "source dataset name (default: active dataset)")
	newDataCmd.Flags().StringVar(&newDataDstFlag, "dst", "", "destination dataset name (required)")
	newDataCmd.Flags().IntVar(&newDataEntriesFlag, "entries", 0, "number of entries to copy per mailbox (required)")
	newDataCmd.Flags().BoolVar(&newDataDryRun, "dry-run", false, "show what would be copied without writing")
	_ = newDataCmd.MarkFlagRequired("dst")
	_ = newDataCmd.MarkFlagRequired("entries")
	rootCmd.AddCommand(newDataCmd)
}

func runNewData(cmd *cobra.Command, args []string) error {
	if newDataEntriesFlag <= 0 {
		return fmt.Errorf("--entries must be a positive integer, got %d", newDataEntriesFlag)
	}
	if err := dataset.ValidateDatasetName(newDataDstFlag); err != nil {
		return fmt.Errorf("invalid --dst: %w", err)
	}
	if newDataSrcFlag != "" {
		if err := dataset.ValidateDatasetName(newDataSrcFlag); err != nil {
			return fmt.Errorf("invalid --src: %w", err)
		}
	}

	home, err := homeDir()
	if err != nil {
		return err
	}

	// Resolve source path
	var srcDir string
	if newDataSrcFlag != "" {
		srcDir, err = datasetPath(newDataSrcFlag)
		if err != nil {
			return err
		}
	} else {
		mdPath, err := maildeskPath()
		if err != nil {
			return err
		}
		resolved, err := filepath.EvalSymlinks(mdPath)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", mdPath, err)
		}
		srcDir = resolved
	}

	// Resolve destination path
	dstDir, err := datasetPath(newDataDstFlag)
	if err != nil {
		return err
	}

	// Canonicalize and validate paths
	srcDir, err = filepath.Abs(filepath.Clean(srcDir))
	if err != nil {
		return fmt.Errorf("resolve source path: %w", err)
	}
	dstDir, err = filepath.Abs(filepath.Clean(dstDir))
	if err != nil {
		return fmt.Errorf("resolve destination path: %w", err)
	}

	// Path traversal protection: verify both paths are within home directory.
	// Use filepath.Rel to compute the relative path from home to each target;
	// if the result starts with ".." the path escapes the home directory.
	absHome, err := filepath.Abs(filepath.Clean(home))
	if err != nil {
		return fmt.Errorf("resolve home directory: %w", err)
	}
	srcRel, err := filepath.Rel(absHome, srcDir)
	if err != nil || srcRel == ".." || strings.HasPrefix(srcRel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("source path %q is outside home directory", srcDir)
	}
	dstRel, err := filepath.Rel(absHome, dstDir)
	if err != nil || dstRel == ".." || strings.HasPrefix(dstRel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("destination path %q is outside home directory", dstDir)
	}

	// Validate source
	if !dataset.HasInbox(srcDir) {
		return fmt.Errorf("source dataset has no inbox directory: %s", srcDir)
	}

	// Validate destination doesn't exist
	if dataset.Exists(dstDir) {
		return fmt.Errorf("destination already exists: %s", dstDir)
	}

	// Dry run: show what would happen
	if newDataDryRun {
		fmt.Fprintf(os.Stdout, "Source:      %s\n", srcDir)
		fmt.Fprintf(os.Stdout, "Destination: %s\n", dstDir)
		fmt.Fprintf(os.Stdout, "Entries:     %d per mailbox (newest by filename date)\n", newDataEntriesFlag)
		fmt.Fprintf(os.Stderr, "devdata: dry run; no changes made\n")
		return nil
	}

	// Perform the copy
	fmt.Fprintf(os.Stderr, "devdata: copying %d entries per mailbox from %s to %s...\n", newDataEntriesFlag, srcDir, dstDir)

	result, err := dataset.CopySubset(srcDir, dstDir, newDataEntriesFlag)
	if err != nil {
		return fmt.Errorf("copy dataset: %w", err)
	}

	// Print summary
	fmt.Fprintf(os.Stderr, "devdata: created dataset %q in %s\n", newDataDstFlag, result.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(os.Stdout, "Entries: %d\n", result.Entries)

	if result.Entries < newDataEntriesFlag*len(mail.All) {
		fmt.Fprintf(os.Stderr, "devdata: warning: requested %d entries per mailbox but source yielded %d total\n", newDataEntriesFlag, result.Entries)
	}

	return nil
}
