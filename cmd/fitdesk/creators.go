package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-fitdesk/pkg/creators"
	"github.com/goliatone/go-fitdesk/pkg/model"
)

func newCreatorsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "creators",
		Short: "List the document creators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := creators.Default()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			for _, schema := range catalog.List() {
				kind := schema.Generator
				if kind == "" {
					kind = model.GeneratorLocal
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", schema.ID, schema.Title, kind)
			}
			return w.Flush()
		},
	}
}
