package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mj1618/listscan/internal/model"
	"github.com/mj1618/listscan/internal/output"
	"github.com/mj1618/listscan/internal/platform"
)

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Read the window's accessibility tree",
	Long:  "Read the accessibility tree of the observed window and output it as structured YAML or JSON.",
	RunE:  runRead,
}

func init() {
	rootCmd.AddCommand(readCmd)
	readCmd.Flags().Int("depth", 0, "Max depth to traverse (0 = unlimited)")
	readCmd.Flags().String("text", "", "Only keep elements whose text or view id contains this (and their ancestors)")
	readCmd.Flags().Bool("visible-only", true, "Only include elements visible to the user")
	readCmd.Flags().Bool("prune", false, "Drop empty layout groups")
	readCmd.Flags().Bool("flat", false, "Flatten the tree into a list with path breadcrumbs")
}

func runRead(cmd *cobra.Command, args []string) error {
	depth, _ := cmd.Flags().GetInt("depth")
	text, _ := cmd.Flags().GetString("text")
	visibleOnly, _ := cmd.Flags().GetBool("visible-only")
	prune, _ := cmd.Flags().GetBool("prune")
	flat, _ := cmd.Flags().GetBool("flat")

	p, err := openProvider(currentConfig())
	if err != nil {
		return err
	}
	if p.Window == nil {
		return fmt.Errorf("provider has no window to read")
	}

	elements, err := readWindow(p.Window, depth)
	if err != nil {
		return err
	}
	elements = refineElements(elements, text, visibleOnly, prune)

	ts := time.Now().Unix()
	if flat {
		return output.Print(output.ReadFlatResult{
			Package:  p.Window.Package(),
			TS:       ts,
			Elements: model.FlattenElements(elements),
		})
	}
	return output.Print(output.ReadResult{
		Package:  p.Window.Package(),
		TS:       ts,
		Elements: elements,
	})
}

// readWindow captures the window's current tree.
func readWindow(w platform.Window, depth int) ([]model.Element, error) {
	root := w.Root()
	if root == nil {
		return nil, fmt.Errorf("window %s has no accessibility root", w.Package())
	}
	defer root.Release()
	return []model.Element{platform.Capture(root, depth)}, nil
}

func refineElements(elements []model.Element, text string, visibleOnly, prune bool) []model.Element {
	if visibleOnly {
		elements = model.PruneHidden(elements)
	}
	if prune {
		elements = model.PruneEmptyGroups(elements)
	}
	if text != "" {
		elements = model.FilterByText(elements, text)
	}
	if elements == nil {
		elements = []model.Element{}
	}
	return elements
}
