package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"sanitybox/internal/client"

	"github.com/spf13/cobra"
)

var (
	mutateReturnIDs  bool
	mutateReturnDocs bool
	mutateVisibility string
	mutateDryRun     bool
)

var mutateCmd = &cobra.Command{
	Use:   "mutate <file>",
	Short: "Submit a mutation transaction",
	Long: `Submit mutations (create, createOrReplace, patch, delete, ...) from a
JSON file, or from stdin when the file is "-".

The file holds either a bare array of mutations or an object with a
"mutations" key. Mutations require an API token in the project
configuration or the SANITY_TOKEN environment variable.`,
	Args: cobra.ExactArgs(1),
	RunE: runMutate,
}

func init() {
	addAPIFlags(mutateCmd)
	mutateCmd.Flags().BoolVar(&mutateReturnIDs, "return-ids", false, "Include affected document IDs in the response")
	mutateCmd.Flags().BoolVar(&mutateReturnDocs, "return-documents", false, "Include full affected documents in the response")
	mutateCmd.Flags().StringVar(&mutateVisibility, "visibility", client.VisibilitySync, "When changes become visible: sync, async or deferred")
	mutateCmd.Flags().BoolVar(&mutateDryRun, "dry-run", false, "Validate the transaction without committing it")
}

func runMutate(cmd *cobra.Command, args []string) error {
	mutations, err := readMutations(args[0])
	if err != nil {
		return err
	}

	c, _, err := newProjectClient()
	if err != nil {
		return err
	}

	result, err := c.Mutate(cmd.Context(), mutations, client.MutateOptions{
		ReturnIDs:       mutateReturnIDs,
		ReturnDocuments: mutateReturnDocs,
		Visibility:      mutateVisibility,
		DryRun:          mutateDryRun,
	})
	if err != nil {
		return err
	}

	return printJSON(result)
}

// readMutations loads the transaction from a file or stdin. Both a bare
// array and a {"mutations": [...]} wrapper are accepted.
func readMutations(path string) ([]any, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read mutations: %w", err)
	}

	var wrapper struct {
		Mutations []any `json:"mutations"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil && wrapper.Mutations != nil {
		return wrapper.Mutations, nil
	}

	var mutations []any
	if err := json.Unmarshal(data, &mutations); err != nil {
		return nil, fmt.Errorf("mutations must be a JSON array or an object with a \"mutations\" key: %w", err)
	}
	return mutations, nil
}
