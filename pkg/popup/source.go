package popup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// ReadContract fetches a contract document from a local path or an http(s)
// URL. A nil client uses http.DefaultClient.
func ReadContract(ctx context.Context, location string, client *http.Client) ([]byte, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, errors.New("popup: contract location is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return readRemote(ctx, location, client)
	}

	abs, err := filepath.Abs(location)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("popup: read contract: %w", err)
	}
	return data, nil
}

// OpenContract reads and parses the contract at location, falling back to
// the bundled contract when location is empty.
func OpenContract(ctx context.Context, location string, client *http.Client) (*Contract, error) {
	if strings.TrimSpace(location) == "" {
		return DefaultContract(ctx)
	}
	raw, err := ReadContract(ctx, location, client)
	if err != nil {
		return nil, err
	}
	return LoadContract(ctx, raw)
}

func readRemote(ctx context.Context, url string, client *http.Client) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("popup: fetch contract: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New("popup: fetch contract: unexpected status " + resp.Status)
	}
	return io.ReadAll(resp.Body)
}
