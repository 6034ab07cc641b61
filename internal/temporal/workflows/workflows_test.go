package workflows

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"nomadoctor/internal"
	"nomadoctor/internal/backup"
	"nomadoctor/internal/history"
	"nomadoctor/internal/nomad"
	"nomadoctor/internal/temporal/activities"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"
	"go.temporal.io/sdk/workflow"
)

type stubNomad struct {
	mu       sync.Mutex
	posted   []string
	listFail bool
}

func (n *stubNomad) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/v1/jobs":
		if n.listFail {
			http.Error(w, "no leader", http.StatusInternalServerError)
			return
		}
		io.WriteString(w, `[{"Name":"web","ParentID":""},{"Name":"db","ParentID":""},{"Name":"db/dispatch-1","ParentID":"db"}]`)
	case r.Method == http.MethodGet && r.URL.Path == "/v1/job/web":
		io.WriteString(w, `{"Name":"web"}`)
	case r.Method == http.MethodPost && r.URL.Path == "/v1/jobs":
		body, _ := io.ReadAll(r.Body)
		n.posted = append(n.posted, string(body))
		io.WriteString(w, `{"EvalID":"1"}`)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

type memoryHistory struct {
	mu   sync.Mutex
	runs []history.Run
}

func (h *memoryHistory) Record(ctx context.Context, run history.Run) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.runs = append(h.runs, run)
	return nil
}

func newTestEnv(t *testing.T, n *stubNomad, recorder history.Recorder) (*testsuite.TestWorkflowEnvironment, *bytes.Buffer, string) {
	t.Helper()

	srv := httptest.NewServer(n)
	t.Cleanup(srv.Close)

	stdout := new(bytes.Buffer)
	tempDir := t.TempDir()
	service := backup.NewService(
		nomad.NewClient(srv.URL, "", 5*time.Second),
		nil,
		recorder,
		backup.Options{TempDir: tempDir, Stdout: stdout},
		zerolog.Nop(),
	)

	ts := &testsuite.WorkflowTestSuite{}
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflowWithOptions(BackupWorkflow, workflow.RegisterOptions{Name: internal.WorkflowNameBackup})
	env.RegisterWorkflowWithOptions(RestoreWorkflow, workflow.RegisterOptions{Name: internal.WorkflowNameRestore})
	env.RegisterActivity(activities.NewActivities(service))
	return env, stdout, tempDir
}

func TestBackupWorkflow(t *testing.T) {
	env, stdout, _ := newTestEnv(t, &stubNomad{}, nil)

	env.ExecuteWorkflow(internal.WorkflowNameBackup, BackupWorkflowInput{})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var result BackupWorkflowOutput
	require.NoError(t, env.GetWorkflowResult(&result))
	assert.Equal(t, 1, result.Records)
	assert.Equal(t, []string{"db"}, result.Failed)
	assert.Equal(t, "eyJOYW1lIjoid2ViIn0=\n", stdout.String())
}

func TestBackupWorkflow_RecordsHistory(t *testing.T) {
	runs := new(memoryHistory)
	env, _, _ := newTestEnv(t, &stubNomad{}, runs)

	env.ExecuteWorkflow(internal.WorkflowNameBackup, BackupWorkflowInput{})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	require.Len(t, runs.runs, 1)
	run := runs.runs[0]
	assert.Equal(t, history.OperationBackup, run.Operation)
	assert.Equal(t, "", run.Target)
	assert.Equal(t, 1, run.Succeeded)
	assert.Equal(t, 1, run.Failed)
	assert.False(t, run.StartedAt.IsZero())
}

func TestBackupWorkflow_MalformedDestinationRecordsNothing(t *testing.T) {
	runs := new(memoryHistory)
	env, _, _ := newTestEnv(t, &stubNomad{}, runs)

	env.ExecuteWorkflow(internal.WorkflowNameBackup, BackupWorkflowInput{Destination: "s3://bucket-only"})

	require.True(t, env.IsWorkflowCompleted())
	assert.Error(t, env.GetWorkflowError())
	assert.Empty(t, runs.runs)
}

func TestBackupWorkflow_ListFailure(t *testing.T) {
	env, stdout, _ := newTestEnv(t, &stubNomad{listFail: true}, nil)

	env.ExecuteWorkflow(internal.WorkflowNameBackup, BackupWorkflowInput{})

	require.True(t, env.IsWorkflowCompleted())
	assert.Error(t, env.GetWorkflowError())
	assert.Empty(t, stdout.String())
}

func TestBackupWorkflow_MalformedDestination(t *testing.T) {
	env, _, _ := newTestEnv(t, &stubNomad{}, nil)

	env.ExecuteWorkflow(internal.WorkflowNameBackup, BackupWorkflowInput{Destination: "s3://bucket-only"})

	require.True(t, env.IsWorkflowCompleted())
	assert.Error(t, env.GetWorkflowError())
}

func TestRestoreWorkflow(t *testing.T) {
	n := &stubNomad{}
	env, _, tempDir := newTestEnv(t, n, nil)

	path := filepath.Join(tempDir, "jobs.backup")
	content := base64.StdEncoding.EncodeToString([]byte(`{"Name":"web"}`)) + "\n" +
		base64.StdEncoding.EncodeToString([]byte(`{"Name":"db"}`)) + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	env.ExecuteWorkflow(internal.WorkflowNameRestore, RestoreWorkflowInput{Source: path})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var result RestoreWorkflowOutput
	require.NoError(t, env.GetWorkflowResult(&result))
	assert.Equal(t, []string{"web", "db"}, result.Succeeded)
	assert.Empty(t, result.Failed)
	assert.Len(t, n.posted, 2)
}
