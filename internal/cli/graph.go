package cli

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/pgcraft/pgcraft/compiler/gen"
)

func newGraphCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "graph",
		Short: "Show the SQL object dependency graph in emission order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			gtor, err := buildGenerator(cmd.Context())
			if err != nil {
				return err
			}
			ordered, err := gtor.Graph().Linearize()
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"#", "Identity", "Depends On"})
			for i, e := range ordered {
				deps := make([]string, 0, len(e.DependsOn()))
				for _, d := range e.DependsOn() {
					if d == gen.RootIdentity {
						continue
					}
					deps = append(deps, d)
				}
				t.AppendRow(table.Row{i + 1, e.Identity(), strings.Join(deps, ", ")})
			}
			t.Render()
			return nil
		},
	}
}
