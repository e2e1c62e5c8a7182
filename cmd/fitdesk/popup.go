package main

import (
	"fmt"
	"net/http"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-fitdesk/pkg/popup"
)

func newPopupCmd(a *app) *cobra.Command {
	var contractPath string
	cmd := &cobra.Command{
		Use:   "popup [operation]",
		Short: "Open a create popup; without arguments lists the operations",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			location := firstNonEmpty(contractPath, a.cfg.Popup.Contract)
			contract, err := popup.OpenContract(cmd.Context(), location, &http.Client{Timeout: a.cfg.API.Timeout})
			if err != nil {
				return err
			}
			if len(args) == 0 {
				w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
				for _, op := range contract.Operations() {
					fmt.Fprintf(w, "%s\t%s %s\t%s\n", op.ID, op.Method, op.Path, op.Summary)
				}
				return w.Flush()
			}

			op, ok := contract.Operation(args[0])
			if !ok {
				return fmt.Errorf("unknown operation %q", args[0])
			}
			form, err := popup.NewForm(op, a.client, popup.WithLogger(a.logger.Named("popup")))
			if err != nil {
				return err
			}
			result, err := a.session.RunForm(cmd.Context(), form)
			if err != nil {
				return err
			}
			return a.printJSON(result)
		},
	}
	cmd.Flags().StringVar(&contractPath, "contract", "", "OpenAPI contract file or URL (defaults to the bundled one)")
	return cmd
}
