package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrUnauthenticated is returned before any network call when no token is
	// available.
	ErrUnauthenticated = errors.New("api: not authenticated")
	// ErrMalformedList signals a list response with an unexpected shape.
	ErrMalformedList = errors.New("api: malformed list response")
)

// RemoteError reports a failed HTTP exchange. Status is zero when the request
// never produced a response.
type RemoteError struct {
	Method  string
	Path    string
	Status  int
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	if e == nil {
		return ""
	}
	if e.Status == 0 {
		return fmt.Sprintf("api: %s %s: %s", e.Method, e.Path, e.Message)
	}
	return fmt.Sprintf("api: %s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
}

func (e *RemoteError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Message returns the user-facing text for err: the server message for remote
// failures, a fixed hint for missing authentication, err.Error() otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrUnauthenticated) {
		return "Sesión no iniciada: falta el token de acceso"
	}
	var remote *RemoteError
	if errors.As(err, &remote) && remote.Message != "" {
		return remote.Message
	}
	return err.Error()
}

// messageKeys lists the error body fields inspected, in order.
var messageKeys = []string{"message", "mensaje"}

func extractMessage(payload any) string {
	obj, ok := payload.(map[string]any)
	if !ok {
		return ""
	}
	for _, key := range messageKeys {
		if text, ok := obj[key].(string); ok && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text)
		}
	}
	return ""
}

func genericMessage(status int) string {
	if text := http.StatusText(status); text != "" {
		return fmt.Sprintf("la solicitud falló (%s)", strings.ToLower(text))
	}
	return "la solicitud falló"
}
