package popup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const miniContract = `openapi: 3.0.3
info: {title: mini, version: "1"}
paths:
  /api/notes:
    post:
      operationId: createNote
      summary: Crear nota
      requestBody:
        content:
          application/json:
            schema:
              type: object
              required: [text]
              properties:
                text: {type: string}
      responses:
        "201": {description: ok}
`

func TestOpenContract_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contract.yaml")
	if err := os.WriteFile(path, []byte(miniContract), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	contract, err := OpenContract(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	op, ok := contract.Operation("createNote")
	if !ok || op.Path != "/api/notes" {
		t.Fatalf("unexpected operation %+v", op)
	}
	if len(contract.Operations()) != 1 {
		t.Fatalf("expected one operation")
	}
}

func TestOpenContract_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/openapi.yaml" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(miniContract))
	}))
	defer srv.Close()

	contract, err := OpenContract(context.Background(), srv.URL+"/openapi.yaml", srv.Client())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok := contract.Operation("createNote"); !ok {
		t.Fatalf("expected createNote")
	}

	_, err = ReadContract(context.Background(), srv.URL+"/missing", srv.Client())
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestOpenContract_DefaultsAndErrors(t *testing.T) {
	contract, err := OpenContract(context.Background(), "  ", nil)
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	if _, ok := contract.Operation("createDiet"); !ok {
		t.Fatalf("expected bundled contract")
	}

	if _, err := ReadContract(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"), nil); err == nil {
		t.Fatalf("expected missing file error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ReadContract(ctx, "contract.yaml", nil); err == nil {
		t.Fatalf("expected context error")
	}
}
