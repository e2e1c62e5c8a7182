package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// Relationship and generation endpoints.
const (
	pathPlanAssociate   = "/api/servicios/paymentplans/%s/associate"
	pathPlanClients     = "/api/planes-servicio/%s/clientes"
	pathExpenseLink     = "/api/gastos/%s/asociar"
	PathContentStrategy = "/api/chat/content-strategy"
)

// AssociatePaymentPlan links a client to a payment plan.
func (c *Client) AssociatePaymentPlan(ctx context.Context, planID, clientID string) (any, error) {
	body := map[string]any{"clientId": clientID}
	return c.Do(ctx, http.MethodPost, expand(pathPlanAssociate, planID), body, RequireStatusSuccess())
}

// PlanClients lists the clients already attached to a service plan.
func (c *Client) PlanClients(ctx context.Context, planID string) (any, error) {
	return c.Do(ctx, http.MethodGet, expand(pathPlanClients, planID), nil)
}

// LinkExpense associates an expense with a client and/or a service. Empty ids
// are omitted from the body.
func (c *Client) LinkExpense(ctx context.Context, expenseID, clientID, serviceID string) (any, error) {
	body := map[string]any{}
	if strings.TrimSpace(clientID) != "" {
		body["clienteId"] = clientID
	}
	if strings.TrimSpace(serviceID) != "" {
		body["servicioId"] = serviceID
	}
	return c.Do(ctx, http.MethodPatch, expand(pathExpenseLink, expenseID), body, RequireStatusSuccess())
}

// ContentStrategy asks the backend to generate a content strategy document.
func (c *Client) ContentStrategy(ctx context.Context, body any) (any, error) {
	return c.Do(ctx, http.MethodPost, PathContentStrategy, body)
}

func expand(pattern, id string) string {
	return strings.Replace(pattern, "%s", url.PathEscape(strings.TrimSpace(id)), 1)
}
