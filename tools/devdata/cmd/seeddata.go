package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/maildesk/maildesk/tools/devdata/dataset"
)

var (
	seedDataDstFlag     string
	seedDataEntriesFlag int
)

var seedDataCmd = &cobra.Command{
	Use:   "seed-data",
	Short: "Create a new dataset with generated sample mail",
	Long:  "Creates a new dataset directory populated with deterministic sample entries, so development does not need a copy of anyone's real mail.",
	RunE:  runSeedData,
}

func init() {
	seedDataCmd.Flags().StringVar(&seedDataDstFlag, "dst", "", "destination dataset name (required)")
	seedDataCmd.Flags().IntVar(&seedDataEntriesFlag, "entries", 20, "number of entries to generate per mailbox")
	_ = seedDataCmd.MarkFlagRequired("dst")
	rootCmd.AddCommand(seedDataCmd)
}

func runSeedData(cmd *cobra.Command, args []string) error {
	if seedDataEntriesFlag <= 0 {
		return fmt.Errorf("--entries must be a positive integer, got %d", seedDataEntriesFlag)
	}
	if err := dataset.ValidateDatasetName(seedDataDstFlag); err != nil {
		return fmt.Errorf("invalid --dst: %w", err)
	}

	dstDir, err := datasetPath(seedDataDstFlag)
	if err != nil {
		return err
	}

	if dataset.Exists(dstDir) {
		return fmt.Errorf("destination already exists: %s", dstDir)
	}

	result, err := dataset.Seed(dstDir, seedDataEntriesFlag)
	if err != nil {
		return fmt.Errorf("seed dataset: %w", err)
	}

	fmt.Fprintf(os.Stderr, "devdata: created dataset %q in %s\n", seedDataDstFlag, result.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(os.Stdout, "Entries: %d\n", result.Entries)
	fmt.Fprintf(os.Stderr, "devdata: run 'devdata mount-data --dataset %s' to use it\n", seedDataDstFlag)

	return nil
}
