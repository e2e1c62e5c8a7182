package association

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-fitdesk/pkg/api"
)

type backend struct {
	url      string
	routes   map[string]any
	requests []string
	bodies   map[string]map[string]any
}

func newBackend(t *testing.T, routes map[string]any) (*backend, *api.Client) {
	t.Helper()
	b := &backend{routes: routes, bodies: map[string]map[string]any{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		b.requests = append(b.requests, key)
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			var body map[string]any
			if err := json.Unmarshal(raw, &body); err != nil {
				t.Errorf("decode body: %v", err)
			}
			b.bodies[key] = body
		}
		payload, ok := b.routes[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"mensaje":"ruta no encontrada"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	}))
	t.Cleanup(srv.Close)
	b.url = srv.URL
	client := api.New(api.WithBaseURL(srv.URL), api.WithAuth(api.StaticToken("tok")))
	return b, client
}

func TestClientPlan_ExcludesAttachedClients(t *testing.T) {
	b, client := newBackend(t, map[string]any{
		"GET /api/clientes": []any{
			map[string]any{"_id": "c1", "nombre": "Ana", "apellidos": "Ruiz"},
			map[string]any{"_id": "c2", "nombre": "Luis"},
			map[string]any{"_id": "c3", "email": "eva@example.com"},
		},
		"GET /api/planes-servicio/p1/clientes":          map[string]any{"clientes": []any{map[string]any{"_id": "c2"}}},
		"POST /api/servicios/paymentplans/p1/associate": map[string]any{"status": "success"},
	})

	popup, err := New(ClientPlan(client, "p1"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := popup.Open(context.Background()); err != nil {
		t.Fatalf("open: %v", err)
	}

	want := []Option{{Value: "c1", Label: "Ana Ruiz"}, {Value: "c3", Label: "eva@example.com"}}
	if diff := cmp.Diff(want, popup.Options(KeyClient)); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}

	if err := popup.Select(KeyClient, "c3"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if _, err := popup.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"clientId": "c3"}, b.bodies["POST /api/servicios/paymentplans/p1/associate"]); diff != "" {
		t.Fatalf("body mismatch (-want +got):\n%s", diff)
	}
	if popup.Phase() != PhaseClosed {
		t.Fatalf("expected closed, got %s", popup.Phase())
	}
}

func TestClientPlan_StatusFailureKeepsPopupOpen(t *testing.T) {
	_, client := newBackend(t, map[string]any{
		"GET /api/clientes":                    []any{map[string]any{"_id": "c1", "nombre": "Ana"}},
		"GET /api/planes-servicio/p1/clientes": []any{},
		"POST /api/servicios/paymentplans/p1/associate": map[string]any{
			"status": "error", "message": "Plan completo",
		},
	})
	popup, _ := New(ClientPlan(client, "p1"))
	_ = popup.Open(context.Background())
	_ = popup.Select(KeyClient, "c1")

	if _, err := popup.Submit(context.Background()); err == nil {
		t.Fatalf("expected status failure")
	}
	if popup.Phase() != PhaseError || popup.Err() != "Plan completo" {
		t.Fatalf("expected error phase with message, got %s %q", popup.Phase(), popup.Err())
	}
}

func TestExpenseLink_ListsAndSubmit(t *testing.T) {
	b, client := newBackend(t, map[string]any{
		"GET /api/clientes":            map[string]any{"data": []any{map[string]any{"id": 7.0, "name": "Marta"}}},
		"GET /api/servicios/services":  "not a list",
		"PATCH /api/gastos/g9/asociar": map[string]any{"status": "success"},
	})
	popup, _ := New(ExpenseLink(client, "g9"))

	if err := popup.Open(context.Background()); err != nil {
		t.Fatalf("open: %v", err)
	}
	if diff := cmp.Diff([]Option{{Value: "7", Label: "Marta"}}, popup.Options(KeyClient)); diff != "" {
		t.Fatalf("clients mismatch (-want +got):\n%s", diff)
	}
	if len(popup.Options(KeyService)) != 0 || popup.Err() == "" {
		t.Fatalf("malformed services list should be empty with a message, got %v %q", popup.Options(KeyService), popup.Err())
	}

	_ = popup.Select(KeyClient, "7")
	if _, err := popup.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"clienteId": "7"}, b.bodies["PATCH /api/gastos/g9/asociar"]); diff != "" {
		t.Fatalf("body mismatch (-want +got):\n%s", diff)
	}
}

func TestClientPlan_NoTokenNoRequests(t *testing.T) {
	b, _ := newBackend(t, map[string]any{})
	client := api.New(api.WithBaseURL(b.url))
	popup, _ := New(ClientPlan(client, "p1"))

	if err := popup.Open(context.Background()); err == nil {
		t.Fatalf("expected unauthenticated error")
	}
	if len(b.requests) != 0 {
		t.Fatalf("no request expected, got %v", b.requests)
	}
	if popup.Phase() != PhaseError {
		t.Fatalf("expected error phase, got %s", popup.Phase())
	}
}

func TestClientPlan_UnreadableAttachedListKeepsClients(t *testing.T) {
	clients := []any{
		map[string]any{"_id": "c1", "nombre": "Ana"},
		map[string]any{"_id": "c2", "nombre": "Luis"},
	}
	cases := map[string]map[string]any{
		"unexpected shape": {
			"GET /api/clientes":                    clients,
			"GET /api/planes-servicio/p1/clientes": map[string]any{"total": 0},
		},
		"plan list missing": {
			"GET /api/clientes": clients,
		},
	}
	for name, routes := range cases {
		t.Run(name, func(t *testing.T) {
			_, client := newBackend(t, routes)
			popup, err := New(ClientPlan(client, "p1"))
			if err != nil {
				t.Fatalf("new: %v", err)
			}
			if err := popup.Open(context.Background()); err != nil {
				t.Fatalf("open: %v", err)
			}
			if popup.Phase() != PhaseListReady {
				t.Fatalf("expected list ready, got %s", popup.Phase())
			}
			want := []Option{{Value: "c1", Label: "Ana"}, {Value: "c2", Label: "Luis"}}
			if diff := cmp.Diff(want, popup.Options(KeyClient)); diff != "" {
				t.Fatalf("options mismatch (-want +got):\n%s", diff)
			}
			if notices := popup.Notices(); len(notices) != 0 {
				t.Fatalf("expected no notices, got %v", notices)
			}
		})
	}
}
