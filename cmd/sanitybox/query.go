package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"sanitybox/internal/client"

	"github.com/spf13/cobra"
)

var (
	queryParamFlags []string
	queryExplain    bool
	queryUsePost    bool
)

var queryCmd = &cobra.Command{
	Use:   "query <groq>",
	Short: "Run a GROQ query",
	Long: `Run a GROQ query against the project dataset and print the response.

Query parameters are passed as name=value pairs. Values are parsed as
JSON, so strings need quoting:

  sanitybox query '*[_type == $type][0...5]' --param type='"post"'
  sanitybox query '*[count(tags) > $n]' --param n=3`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	addAPIFlags(queryCmd)
	queryCmd.Flags().StringArrayVar(&queryParamFlags, "param", nil, "Query parameter as name=json-value (repeatable)")
	queryCmd.Flags().BoolVar(&queryExplain, "explain", false, "Include query planner output")
	queryCmd.Flags().BoolVar(&queryUsePost, "post", false, "Send the query in a POST body (for long queries)")
}

func runQuery(cmd *cobra.Command, args []string) error {
	params, err := parseQueryParams(queryParamFlags)
	if err != nil {
		return err
	}

	c, _, err := newProjectClient()
	if err != nil {
		return err
	}

	result, err := c.Query(cmd.Context(), args[0], client.QueryOptions{
		Params:  params,
		Explain: queryExplain,
		UsePost: queryUsePost,
	})
	if err != nil {
		return err
	}

	return printJSON(result)
}

// parseQueryParams turns repeated name=json-value flags into a param map.
func parseQueryParams(flags []string) (map[string]any, error) {
	if len(flags) == 0 {
		return nil, nil
	}

	params := make(map[string]any, len(flags))
	for _, flag := range flags {
		name, rawValue, found := strings.Cut(flag, "=")
		if !found || name == "" {
			return nil, fmt.Errorf("invalid --param %q, expected name=value", flag)
		}

		var value any
		if err := json.Unmarshal([]byte(rawValue), &value); err != nil {
			// Bare words are a common slip; treat them as strings.
			value = rawValue
		}
		params[name] = value
	}
	return params, nil
}
