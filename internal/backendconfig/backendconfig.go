// Package backendconfig resolves where the book service backend lives.
//
// The deployment publishes a small JSON document next to the client:
//
//	{"BACKEND_HOST": "books.example.com", "BACKEND_PORT": 443, "BACKEND_PROTO": "https"}
//
// Every field is optional. The document is read once at startup, before the API
// client is built, and never again.
package backendconfig

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultHost     = "localhost"
	DefaultPort     = "8080"
	DefaultProtocol = "http"
)

const (
	keyHost     = "BACKEND_HOST"
	keyPort     = "BACKEND_PORT"
	keyProtocol = "BACKEND_PROTO"
)

// Backend holds the connection parameters of the remote API.
type Backend struct {
	Host     string
	Port     string
	Protocol string
}

func Default() Backend {
	return Backend{Host: DefaultHost, Port: DefaultPort, Protocol: DefaultProtocol}
}

func (b Backend) BaseURL() string {
	return fmt.Sprintf("%s://%s:%s", b.Protocol, b.Host, b.Port)
}

// Loader reads the runtime config from a URL or a local file.
type Loader struct {
	source     string
	httpClient *http.Client
}

type LoaderOption func(*Loader)

func WithHTTPClient(client *http.Client) LoaderOption {
	return func(l *Loader) {
		l.httpClient = client
	}
}

func NewLoader(source string, opts ...LoaderOption) *Loader {
	l := &Loader{
		source: source,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load makes a single attempt to read the config. Any failure is logged and
// yields the defaults; Load itself never fails.
func (l *Loader) Load(ctx context.Context) Backend {
	data, err := l.read(ctx)
	if err != nil {
		log.Printf("WARNING: failed to load runtime config from %s, using defaults: %v", l.source, err)
		return Default()
	}

	backend, err := Parse(data)
	if err != nil {
		log.Printf("WARNING: failed to parse runtime config from %s, using defaults: %v", l.source, err)
		return Default()
	}

	log.Printf("Backend configured at %s", backend.BaseURL())
	return backend
}

func (l *Loader) read(ctx context.Context) ([]byte, error) {
	if l.source == "" {
		return nil, fmt.Errorf("no config source configured")
	}
	if isURL(l.source) {
		return l.fetch(ctx)
	}

	data, err := os.ReadFile(l.source)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return data, nil
}

func (l *Loader) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch config: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("failed to fetch config: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read config body: %w", err)
	}
	return data, nil
}

// Parse decodes the config document. Missing or null fields take their
// defaults; numeric values are accepted for every field.
func Parse(data []byte) (Backend, error) {
	v := viper.New()
	v.SetConfigType("json")
	v.SetDefault(keyHost, DefaultHost)
	v.SetDefault(keyPort, DefaultPort)
	v.SetDefault(keyProtocol, DefaultProtocol)

	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return Default(), fmt.Errorf("malformed config: %w", err)
	}

	return Backend{
		Host:     v.GetString(keyHost),
		Port:     v.GetString(keyPort),
		Protocol: v.GetString(keyProtocol),
	}, nil
}

func isURL(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
