package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matsen/ldx/internal/sparql"
)

var (
	queryFile    string
	queryExample string
	queryList    bool
)

var errNoQuery = errors.New("no query: pass SPARQL text, --file, or --example")

func init() {
	queryCmd.Flags().StringVarP(&queryFile, "file", "f", "", "Read the query from a file")
	queryCmd.Flags().StringVarP(&queryExample, "example", "e", "", "Run a built-in example query by name")
	queryCmd.Flags().BoolVar(&queryList, "list", false, "List built-in example queries")
	rootCmd.AddCommand(queryCmd)
}

var queryCmd = &cobra.Command{
	Use:   "query [sparql]",
	Short: "Run a SELECT query against the endpoint",
	Long: `Run a free-form SELECT query and print the result table.

Examples:
  ldx query 'SELECT ?s WHERE { ?s ?p ?o } LIMIT 5' --human
  ldx query --file players.rq
  ldx query --example top-rated --human
  ldx query --list`,
	Args: cobra.MaximumNArgs(1),
	RunE: runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	if queryList {
		return listExamples()
	}

	var text string
	if len(args) == 1 {
		text = args[0]
	}
	query, err := resolveQuery(text, queryFile, queryExample, os.ReadFile)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	client := newClient()
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()

	result, err := client.Select(ctx, query)
	if err != nil {
		exitWithQueryError("query failed", err)
	}

	if humanOutput {
		outputHuman("%s", formatTable(result))
		return nil
	}
	return outputJSON(result)
}

// resolveQuery picks the query text from exactly one source.
func resolveQuery(text, file, example string, readFile func(string) ([]byte, error)) (string, error) {
	sources := 0
	for _, s := range []string{text, file, example} {
		if s != "" {
			sources++
		}
	}
	switch {
	case sources == 0:
		return "", errNoQuery
	case sources > 1:
		return "", errors.New("pass only one of SPARQL text, --file, or --example")
	}

	switch {
	case example != "":
		ex, ok := sparql.LookupExample(example)
		if !ok {
			return "", fmt.Errorf("unknown example %q (see ldx query --list)", example)
		}
		return ex.Query, nil
	case file != "":
		data, err := readFile(file)
		if err != nil {
			return "", fmt.Errorf("reading query file: %w", err)
		}
		text = string(data)
	}

	if strings.TrimSpace(text) == "" {
		return "", sparql.ErrEmptyQuery
	}
	return text, nil
}

func listExamples() error {
	examples := sparql.Examples()
	if !humanOutput {
		return outputJSON(examples)
	}
	rows := make([][]string, 0, len(examples))
	for _, ex := range examples {
		rows = append(rows, []string{ex.Name, ex.Description})
	}
	outputHuman("%s\n", table.New().Headers("name", "description").Rows(rows...).Render())
	return nil
}
