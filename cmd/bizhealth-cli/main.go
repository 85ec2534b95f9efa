// cmd/bizhealth-cli runs the onboarding, feasibility and health engines
// offline and maintains the activity registry.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bizhealth-cli",
		Short:         "Run business health engines offline",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(
		newQuestionnaireCmd(),
		newCostsCmd(),
		newScoreCmd(),
		newSummarizeCmd(),
		newRegistryCmd(),
	)
	return root
}

func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
