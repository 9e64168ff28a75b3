package cmd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/amphora/patentsafe-mcp/internal/patentsafe"
	"github.com/amphora/patentsafe-mcp/internal/server"
)

func newHandshakeClient(t *testing.T, handler http.HandlerFunc) *patentsafe.Client {
	t.Helper()

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	client, err := patentsafe.NewClient(context.Background(), patentsafe.Config{
		BaseURL:   ts.URL,
		AuthToken: "test-token",
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

func TestConnectHandshake(t *testing.T) {
	client := newHandshakeClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/mcp/connect" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"serverVersion": "7.2",
			"userId": "ada",
			"contextHeader": "Lab 7",
			"metadataFields": ["project", "witness"]
		}`))
	})

	info, err := connectHandshake(context.Background(), client)
	if err != nil {
		t.Fatalf("connectHandshake() error = %v", err)
	}
	if info.ServerVersion != "7.2" || info.UserID != "ada" {
		t.Errorf("unexpected server info: %+v", info)
	}
	if len(info.MetadataFields) != 2 {
		t.Errorf("expected 2 metadata fields, got %d", len(info.MetadataFields))
	}
}

func TestConnectHandshakeFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantMsg string
	}{
		{
			name:    "invalid token",
			status:  http.StatusUnauthorized,
			wantMsg: "authentication failed - invalid token",
		},
		{
			name:    "invalid base URL",
			status:  http.StatusNotFound,
			wantMsg: "invalid PatentSafe URL",
		},
		{
			name:    "backend failure",
			status:  http.StatusInternalServerError,
			wantMsg: "failed to initialize PatentSafe connection",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newHandshakeClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			})

			_, err := connectHandshake(context.Background(), client)
			if err == nil {
				t.Fatal("expected handshake error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestRegisterAllTools(t *testing.T) {
	client := newHandshakeClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	info := &patentsafe.ServerInfo{
		ServerVersion:  "7.2",
		UserID:         "ada",
		MetadataFields: []string{"project"},
	}

	sc := server.NewServerContext(context.Background(), client, info, 10)
	defer sc.Shutdown()

	mcpSrv := mcpserver.NewMCPServer("test", "0.0.0")
	if err := registerAllTools(mcpSrv, sc, "ps"); err != nil {
		t.Fatalf("registerAllTools() error = %v", err)
	}
}

func TestServeCmdDefaults(t *testing.T) {
	cmd := newServeCmd()

	tests := []struct {
		flag string
		want string
	}{
		{"transport", "stdio"},
		{"http-addr", ":8080"},
		{"page-size", "10"},
		{"metrics-addr", server.DefaultMetricsAddr},
		{"metrics-enabled", "true"},
		{"tool-prefix", ""},
	}

	for _, tt := range tests {
		f := cmd.Flags().Lookup(tt.flag)
		if f == nil {
			t.Errorf("flag %q not registered", tt.flag)
			continue
		}
		if f.DefValue != tt.want {
			t.Errorf("flag %q default = %q, want %q", tt.flag, f.DefValue, tt.want)
		}
	}
}
