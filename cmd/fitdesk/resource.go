package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	gojson "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-fitdesk/pkg/api"
)

func newResourceCmd(a *app) *cobra.Command {
	var data, file string
	cmd := &cobra.Command{
		Use:   "resource <name> <list|get|create|update|patch|delete> [id]",
		Short: "Call the CRUD endpoints of a backend collection",
		Long:  "Known collections: " + strings.Join(api.ResourceNames(), ", "),
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			resource, err := a.client.ResourceByName(args[0])
			if err != nil {
				return err
			}
			action, id := args[1], ""
			if len(args) == 3 {
				id = args[2]
			}

			ctx := cmd.Context()
			var result any
			switch action {
			case "list":
				result, err = resource.List(ctx)
			case "get", "delete":
				if id == "" {
					return fmt.Errorf("%s requires an id", action)
				}
				if action == "get" {
					result, err = resource.Get(ctx, id)
				} else {
					result, err = resource.Delete(ctx, id)
				}
			case "create", "update", "patch":
				body, berr := readBody(data, file)
				if berr != nil {
					return berr
				}
				switch {
				case action == "create":
					result, err = resource.Create(ctx, body)
				case id == "":
					return fmt.Errorf("%s requires an id", action)
				case action == "update":
					result, err = resource.Update(ctx, id, body)
				default:
					result, err = resource.Patch(ctx, id, body)
				}
			default:
				return fmt.Errorf("unknown action %q", action)
			}
			if err != nil {
				return errors.New(api.Message(err))
			}
			return a.printJSON(result)
		},
	}
	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON request body")
	cmd.Flags().StringVarP(&file, "file", "f", "", "file holding the JSON request body")
	return cmd
}

func readBody(data, file string) (any, error) {
	raw := []byte(data)
	if file != "" {
		var err error
		raw, err = os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, fmt.Errorf("a JSON body is required (--data or --file)")
	}
	var body any
	if err := gojson.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("parse body: %w", err)
	}
	return body, nil
}
