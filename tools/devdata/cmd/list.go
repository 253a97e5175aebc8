package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/maildesk/maildesk/tools/devdata/dataset"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available datasets",
	Long:  "Shows all available maildesk datasets with their entry counts and which one is currently active.",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	path, err := maildeskPath()
	if err != nil {
		return err
	}

	// Show current symlink status
	isSym, err := dataset.IsSymlink(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "devdata: %s does not exist\n", path)
			return nil
		}
		return fmt.Errorf("check %s: %w", path, err)
	}

	if isSym {
		target, _ := dataset.ReadTarget(path)
		fmt.Fprintf(os.Stderr, "devdata: dev mode active (%s -> %s)\n", path, target)
	} else {
		fmt.Fprintf(os.Stderr, "devdata: dev mode not active (%s is a real directory)\n", path)
	}

	home, err := homeDir()
	if err != nil {
		return err
	}
	datasets, err := dataset.ListDatasets(home)
	if err != nil {
		return fmt.Errorf("list datasets: %w", err)
	}

	if len(datasets) == 0 {
		fmt.Fprintf(os.Stderr, "devdata: no datasets found\n")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ACTIVE\tNAME\tENTRIES\tPATH")

	for _, d := range datasets {
		active := " "
		if d.Active {
			active = "*"
		}

		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", active, d.Name, d.Entries, d.Path)
	}

	return w.Flush()
}
