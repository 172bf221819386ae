package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/ldx/internal/viz"
)

var (
	graphOutput string
	graphFormat string
	graphWidth  float64
	graphHeight float64
)

func init() {
	defaults := viz.DefaultForceSettings()
	graphCmd.Flags().StringVarP(&graphOutput, "output", "o", "", "Output file path (default: stdout)")
	graphCmd.Flags().StringVarP(&graphFormat, "format", "f", "html", "Output format: html, dot, or json")
	graphCmd.Flags().Float64Var(&graphWidth, "width", defaults.Width, "Canvas width")
	graphCmd.Flags().Float64Var(&graphHeight, "height", defaults.Height, "Canvas height")
	rootCmd.AddCommand(graphCmd)
}

var graphCmd = &cobra.Command{
	Use:   "graph <uri>",
	Short: "Render an entity's neighbourhood graph",
	Long: `Render the entity and every resource one relation away as a graph.

Formats:
  html  standalone page with a draggable force-directed layout
  dot   Graphviz digraph, left to right, selected entity highlighted
  json  nodes, links and force settings for a d3-force layout

Examples:
  ldx graph http://example.org/fifa/player/Messi -o messi.html
  ldx graph http://example.org/fifa/player/Messi -f dot | dot -Tsvg > messi.svg`,
	Args: cobra.ExactArgs(1),
	RunE: runGraph,
}

func runGraph(cmd *cobra.Command, args []string) error {
	if graphFormat != "html" && graphFormat != "dot" && graphFormat != "json" {
		exitWithError(ExitDataError, "invalid format %q: must be html, dot, or json", graphFormat)
	}

	uri := args[0]
	client := newClient()

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()

	details, err := client.GetEntityDetails(ctx, uri)
	if err != nil {
		exitWithQueryError("loading entity failed", err)
	}
	graph := viz.BuildEntityGraph(uri, details)

	forces := viz.DefaultForceSettings()
	forces.Width = graphWidth
	forces.Height = graphHeight

	title := uri
	if n, ok := graph.Central(); ok {
		title = n.Label
	}

	var out string
	switch graphFormat {
	case "dot":
		out = graph.ToDOT()
	case "json":
		out, err = graph.ToForceJSON(forces)
	default:
		out, err = viz.GenerateHTML(graph, viz.HTMLOptions{
			Title:  title,
			Forces: forces,
		})
	}
	if err != nil {
		return fmt.Errorf("rendering graph: %w", err)
	}

	if graphOutput == "" {
		fmt.Print(out)
		return nil
	}

	if err := os.WriteFile(graphOutput, []byte(out), 0644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	if humanOutput {
		outputHuman("Graph written to %s (%d nodes, %d links)\n", graphOutput, len(graph.Nodes), len(graph.Links))
		return nil
	}
	return outputJSON(StatusResponse{Status: "written", Path: graphOutput})
}
