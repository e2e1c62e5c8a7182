package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-fitdesk/pkg/api"
)

func newLoginCmd(a *app) *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store the access token used by every command",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			value := strings.TrimSpace(token)
			if value == "" {
				var err error
				value, err = a.session.Login(cmd.Context())
				if err != nil {
					return err
				}
			}
			if err := a.store.Set(api.TokenKey, value); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Sesión guardada en %s\n", a.store.Path())
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "with-token", "", "token to store without prompting")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.store.Delete(api.TokenKey); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Sesión cerrada")
			return nil
		},
	}
}
