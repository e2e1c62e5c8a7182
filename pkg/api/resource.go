package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// Resource wraps one REST collection.
type Resource struct {
	client *Client
	name   string
	path   string
}

// Resource returns a wrapper for the collection mounted at path.
func (c *Client) Resource(name, path string) *Resource {
	return &Resource{client: c, name: name, path: "/" + strings.Trim(path, "/")}
}

// Name reports the resource identifier.
func (r *Resource) Name() string {
	return r.name
}

// Path reports the collection path.
func (r *Resource) Path() string {
	return r.path
}

// List fetches the collection.
func (r *Resource) List(ctx context.Context) (any, error) {
	return r.client.Do(ctx, http.MethodGet, r.path, nil)
}

// Get fetches one entity.
func (r *Resource) Get(ctx context.Context, id string) (any, error) {
	return r.client.Do(ctx, http.MethodGet, r.item(id), nil)
}

// Create posts a new entity.
func (r *Resource) Create(ctx context.Context, body any) (any, error) {
	return r.client.Do(ctx, http.MethodPost, r.path, body)
}

// Update replaces an entity.
func (r *Resource) Update(ctx context.Context, id string, body any) (any, error) {
	return r.client.Do(ctx, http.MethodPut, r.item(id), body)
}

// Patch partially updates an entity.
func (r *Resource) Patch(ctx context.Context, id string, body any) (any, error) {
	return r.client.Do(ctx, http.MethodPatch, r.item(id), body)
}

// Delete removes an entity.
func (r *Resource) Delete(ctx context.Context, id string) (any, error) {
	return r.client.Do(ctx, http.MethodDelete, r.item(id), nil)
}

func (r *Resource) item(id string) string {
	return r.path + "/" + url.PathEscape(strings.TrimSpace(id))
}

// Collection paths served by the backend.
const (
	PathCampaigns    = "/api/campaigns"
	PathDiets        = "/api/diets"
	PathFoods        = "/api/foods"
	PathLeads        = "/api/leads"
	PathClients      = "/api/clientes"
	PathPaymentPlans = "/api/planes-de-pago"
	PathContracts    = "/api/contracts"
	PathServices     = "/api/servicios/services"
)

var resourcePaths = map[string]string{
	"campaigns":     PathCampaigns,
	"diets":         PathDiets,
	"foods":         PathFoods,
	"leads":         PathLeads,
	"clients":       PathClients,
	"payment-plans": PathPaymentPlans,
	"contracts":     PathContracts,
	"services":      PathServices,
}

// Campaigns wraps /api/campaigns.
func (c *Client) Campaigns() *Resource { return c.Resource("campaigns", PathCampaigns) }

// Diets wraps /api/diets.
func (c *Client) Diets() *Resource { return c.Resource("diets", PathDiets) }

// Foods wraps /api/foods.
func (c *Client) Foods() *Resource { return c.Resource("foods", PathFoods) }

// Leads wraps /api/leads.
func (c *Client) Leads() *Resource { return c.Resource("leads", PathLeads) }

// Clients wraps /api/clientes.
func (c *Client) Clients() *Resource { return c.Resource("clients", PathClients) }

// PaymentPlans wraps /api/planes-de-pago.
func (c *Client) PaymentPlans() *Resource { return c.Resource("payment-plans", PathPaymentPlans) }

// Contracts wraps /api/contracts.
func (c *Client) Contracts() *Resource { return c.Resource("contracts", PathContracts) }

// Services wraps /api/servicios/services.
func (c *Client) Services() *Resource { return c.Resource("services", PathServices) }

// ResourceByName resolves one of the known collections.
func (c *Client) ResourceByName(name string) (*Resource, error) {
	path, ok := resourcePaths[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("api: unknown resource %q (known: %s)", name, strings.Join(ResourceNames(), ", "))
	}
	return c.Resource(strings.ToLower(strings.TrimSpace(name)), path), nil
}

// ResourceNames lists the known collections, sorted.
func ResourceNames() []string {
	names := make([]string, 0, len(resourcePaths))
	for name := range resourcePaths {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
