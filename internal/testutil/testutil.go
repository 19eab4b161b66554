// Package testutil provides shared test helpers for config files and a fake RAG service.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// SetupTestConfig writes a config file that points the remote provider at ragServiceURL.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir, ragServiceURL string) string {
	t.Helper()

	configContent := fmt.Sprintf(`server:
  host: 127.0.0.1
  port: 8080
  request_timeout: 5s
provider:
  kind: remote
  max_retry_attempts: 0
  remote:
    base_url: %s
    timeout: 5s
`,
		ragServiceURL,
	)

	configPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))
	return configPath
}

// NewRAGService starts a fake RAG service whose /rag/ask answers with answerFn(question).
// The server is closed when the test finishes.
func NewRAGService(t *testing.T, answerFn func(question string) string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /rag/ask", func(w http.ResponseWriter, r *http.Request) {
		var reqBody struct {
			Question string `json:"question"`
		}
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"detail": "invalid body"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"answer": answerFn(reqBody.Question)})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}
