package association

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/goliatone/go-fitdesk/pkg/api"
)

// Key names used by the built-in popups.
const (
	KeyClient  = "client"
	KeyService = "service"
)

// Fields maps list items to options. Value and Label are tried in order; the
// label falls back to the value when every label field is empty.
type Fields struct {
	Paths []string
	Value []string
	Label []string
}

var (
	clientFields = Fields{
		Paths: []string{"clientes", "data"},
		Value: []string{"_id", "id"},
		Label: []string{"nombre", "name", "email"},
	}
	serviceFields = Fields{
		Paths: []string{"servicios", "services", "data"},
		Value: []string{"_id", "id"},
		Label: []string{"nombre", "name", "titulo"},
	}
)

// OptionsFrom converts a list payload into options. Items without a value are
// skipped. Shapes ListItems cannot read yield api.ErrMalformedList.
func OptionsFrom(payload any, fields Fields) ([]Option, error) {
	items, err := api.ListItems(payload, fields.Paths...)
	if err != nil {
		return nil, err
	}
	out := make([]Option, 0, len(items))
	for _, item := range items {
		value := first(item, fields.Value)
		if value == "" {
			continue
		}
		label := first(item, fields.Label)
		if label == "" {
			label = value
		}
		if surname := api.Pick(item, "apellidos"); surname != "" && label != value {
			label += " " + surname
		}
		out = append(out, Option{Value: value, Label: label})
	}
	return out, nil
}

// Lister is satisfied by api.Resource.
type Lister interface {
	List(ctx context.Context) (any, error)
}

// ListLoader adapts a resource list call into a LoadFunc.
func ListLoader(list Lister, fields Fields) LoadFunc {
	return func(ctx context.Context) ([]Option, error) {
		payload, err := list.List(ctx)
		if err != nil {
			return nil, err
		}
		return OptionsFrom(payload, fields)
	}
}

// ClientPlan links a client to payment plan planID. Clients already attached
// to the plan are left out of the list.
func ClientPlan(client *api.Client, planID string) Definition {
	clients := ListLoader(client.Clients(), clientFields)
	return Definition{
		Name: "client-plan",
		Keys: []Key{{
			Name:  KeyClient,
			Label: "cliente",
			Load: func(ctx context.Context) ([]Option, error) {
				options, err := clients(ctx)
				if err != nil {
					return nil, err
				}
				attached, err := planClients(ctx, client, planID)
				if err != nil {
					return nil, err
				}
				return exclude(options, attached), nil
			},
		}},
		Submit: func(ctx context.Context, selections map[string]string) (any, error) {
			return client.AssociatePaymentPlan(ctx, planID, selections[KeyClient])
		},
	}
}

// ExpenseLink associates expense gastoID with a client, a service, or both.
func ExpenseLink(client *api.Client, gastoID string) Definition {
	return Definition{
		Name: "expense-link",
		Keys: []Key{
			{Name: KeyClient, Label: "cliente", Optional: true, Load: ListLoader(client.Clients(), clientFields)},
			{Name: KeyService, Label: "servicio", Optional: true, Load: ListLoader(client.Services(), serviceFields)},
		},
		Submit: func(ctx context.Context, selections map[string]string) (any, error) {
			return client.LinkExpense(ctx, gastoID, selections[KeyClient], selections[KeyService])
		},
	}
}

// planClients lists the clients already on the plan. An unreadable or
// missing list excludes nothing.
func planClients(ctx context.Context, client *api.Client, planID string) ([]Option, error) {
	payload, err := client.PlanClients(ctx, planID)
	var remote *api.RemoteError
	if errors.As(err, &remote) && remote.Status == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	attached, err := OptionsFrom(payload, clientFields)
	if errors.Is(err, api.ErrMalformedList) {
		return nil, nil
	}
	return attached, err
}

func exclude(options, drop []Option) []Option {
	if len(drop) == 0 {
		return options
	}
	skip := make(map[string]struct{}, len(drop))
	for _, option := range drop {
		skip[option.Value] = struct{}{}
	}
	out := make([]Option, 0, len(options))
	for _, option := range options {
		if _, ok := skip[option.Value]; !ok {
			out = append(out, option)
		}
	}
	return out
}

func first(item map[string]any, paths []string) string {
	for _, path := range paths {
		if value := strings.TrimSpace(api.Pick(item, path)); value != "" {
			return value
		}
	}
	return ""
}
