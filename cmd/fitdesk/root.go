package main

import (
	"io"

	"github.com/spf13/cobra"
)

func newRootCmd(out io.Writer) *cobra.Command {
	root, _ := newRoot(out)
	return root
}

// newRoot returns the command tree and the app it configures, so callers can
// release the app once execution ends.
func newRoot(out io.Writer) (*cobra.Command, *app) {
	a := &app{out: out}
	root := &cobra.Command{
		Use:           "fitdesk",
		Short:         "Fitness business assistant: content creators, clients and plans",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default ./fitdesk.yaml)")
	flags.StringVar(&a.baseURL, "base-url", "", "backend base URL, overrides api.base_url")
	flags.StringVar(&a.token, "token", "", "access token, overrides the stored session")

	root.AddCommand(
		newCreatorsCmd(a),
		newWizardCmd(a),
		newResourceCmd(a),
		newAssociateCmd(a),
		newPopupCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
	)
	return root, a
}
