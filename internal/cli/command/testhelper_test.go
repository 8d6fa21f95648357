package command

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yndnr/ast-keyaudit/internal/idp/idptest"
)

const aliceCSV = "Username,User ID,Created,Last Access\n" +
	"alice,u1,1970-01-01 00:00:00,1970-01-01 00:01:00\n"

// newAliceIdP returns a fake identity provider for tenant acme with one
// ast-app client c1 and one offline session for alice.
func newAliceIdP(t *testing.T) *idptest.Server {
	t.Helper()
	fake := idptest.New("acme")
	t.Cleanup(fake.Close)

	fake.SetClients(idptest.Response{Body: []map[string]any{{"id": "c1"}}})
	fake.SetSessions(idptest.Response{Body: []map[string]any{
		{"username": "alice", "userId": "u1", "start": 0, "lastAccess": 60000},
	}})
	return fake
}

// runApp runs the application against fake with UTC timestamps and returns
// what it printed. A missing dotenv file is always passed so the working
// directory's .env never leaks into a test.
func runApp(t *testing.T, fake *idptest.Server, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := App(
		WithTransport(fake.Transport()),
		WithLocation(time.UTC),
		WithOutput(&out),
	)

	full := []string{"ast-keyaudit", "--env-file", filepath.Join(t.TempDir(), ".env")}
	full = append(full, args...)
	err := app.Run(full)
	return out.String(), err
}

// baseArgs are the required flags for tenant acme, writing to output.
func baseArgs(output string) []string {
	return []string{
		"--base-url", "https://ast.checkmarx.net",
		"--tenant", "acme",
		"--api-key", "super-secret-api-key",
		"--output", output,
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
