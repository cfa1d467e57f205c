package cmd

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mj1618/listscan/internal/harvest"
	"github.com/mj1618/listscan/internal/output"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [text...]",
	Short: "Show whether text values would be harvested as entries",
	Long: `Run text values through the entry classifier and print the verdict and reason
for each. With no arguments, one value per line is read from stdin.

Examples:
  listscan classify Alice "10:30 am" "+1 555 123 4567"
  printf 'Alice\nUnread\n' | listscan classify --accepted`,
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	classifyCmd.Flags().Bool("accepted", false, "Only print accepted values")
}

func runClassify(cmd *cobra.Command, args []string) error {
	acceptedOnly, _ := cmd.Flags().GetBool("accepted")

	texts := args
	if len(texts) == 0 {
		sc := bufio.NewScanner(cmd.InOrStdin())
		for sc.Scan() {
			texts = append(texts, sc.Text())
		}
		if err := sc.Err(); err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
	}

	results := classifyAll(texts, acceptedOnly)
	return output.Fprint(cmd.OutOrStdout(), results)
}

func classifyAll(texts []string, acceptedOnly bool) []output.ClassifyResult {
	results := []output.ClassifyResult{}
	for _, t := range texts {
		v := harvest.Classify(t)
		if acceptedOnly && !v.Accept {
			continue
		}
		results = append(results, output.ClassifyResult{Text: t, Accept: v.Accept, Reason: string(v.Reason)})
	}
	return results
}
