package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Poster is the slice of api.Client used by Remote.
type Poster interface {
	ContentStrategy(ctx context.Context, body any) (any, error)
}

// ErrEmptyResponse is returned when the backend answers without document text.
var ErrEmptyResponse = errors.New("generator: response carries no document text")

// responseKeys are probed in order for the generated text.
var responseKeys = []string{"content", "respuesta", "data.content", "data", "result", "message"}

// Remote delegates generation to the backend content-strategy endpoint.
type Remote struct {
	client Poster
}

// NewRemote wraps client.
func NewRemote(client Poster) *Remote {
	return &Remote{client: client}
}

// Generate implements Generator.
func (r *Remote) Generate(ctx context.Context, req Request) (string, error) {
	if r == nil || r.client == nil {
		return "", errors.New("generator: remote client is nil")
	}
	body := req.Values.Map()
	body["creator"] = req.Schema.ID

	payload, err := r.client.ContentStrategy(ctx, body)
	if err != nil {
		return "", err
	}
	text := extractText(payload)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w (schema %s)", ErrEmptyResponse, req.Schema.ID)
	}
	return text, nil
}

func extractText(payload any) string {
	switch typed := payload.(type) {
	case string:
		return typed
	case map[string]any:
		for _, key := range responseKeys {
			if text, ok := stringAt(typed, key); ok && strings.TrimSpace(text) != "" {
				return text
			}
		}
	}
	return ""
}

// stringAt resolves a dotted key and reports whether it holds a string.
func stringAt(obj map[string]any, key string) (string, bool) {
	cur := any(obj)
	for _, segment := range strings.Split(key, ".") {
		node, ok := cur.(map[string]any)
		if !ok {
			return "", false
		}
		cur = node[segment]
	}
	text, ok := cur.(string)
	return text, ok
}
