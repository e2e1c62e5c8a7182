package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-fitdesk/pkg/association"
)

func newAssociateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "associate",
		Short: "Link records through the association popups",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "plan <plan-id>",
			Short: "Attach a client to a payment plan",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runAssociation(cmd, a, association.ClientPlan(a.client, args[0]))
			},
		},
		&cobra.Command{
			Use:   "expense <expense-id>",
			Short: "Link an expense to a client and/or a service",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runAssociation(cmd, a, association.ExpenseLink(a.client, args[0]))
			},
		},
	)
	return cmd
}

func runAssociation(cmd *cobra.Command, a *app, def association.Definition) error {
	popup, err := association.New(def, association.WithLogger(a.logger.Named("association")))
	if err != nil {
		return err
	}
	result, err := a.session.RunAssociation(cmd.Context(), popup)
	if err != nil {
		return err
	}
	return a.printJSON(result)
}
