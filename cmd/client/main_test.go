package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurkanbulca/taskdeck/internal/handler"
	"github.com/gurkanbulca/taskdeck/internal/repository"
	"github.com/gurkanbulca/taskdeck/internal/service"
	"github.com/gurkanbulca/taskdeck/pkg/clock"
	"github.com/gurkanbulca/taskdeck/pkg/taskclient"
)

func startAPI(t *testing.T) string {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewTaskService(repository.NewMemoryTaskRepository(), service.Options{
		Clock:  clock.Fake(time.Date(2025, time.June, 15, 9, 0, 0, 0, time.UTC)),
		Logger: log,
	})
	mux := http.NewServeMux()
	handler.NewTaskHandler(svc, "/api/tasks", log).Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv.URL + "/api/tasks"
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), args, &out)
	return out.String(), err
}

func TestRun_CreateEditList(t *testing.T) {
	endpoint := startAPI(t)

	out, err := runCLI(t, "create", "--endpoint", endpoint, "--json", "--title", "Write report !3")
	require.NoError(t, err)
	var created []taskclient.Task
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	require.Len(t, created, 1)
	require.NotNil(t, created[0].Priority)
	assert.Equal(t, "MEDIUM", *created[0].Priority)

	_, err = runCLI(t, "edit", "--endpoint", endpoint, "--id", created[0].ID, "--priority", "null", "--deadline", "2025-06-16")
	require.NoError(t, err)

	out, err = runCLI(t, "list", "--endpoint", endpoint)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "URGENCY")
	assert.Contains(t, lines[1], "Write report !3")
	assert.Contains(t, lines[1], "2025-06-16")
	assert.Contains(t, lines[1], "WARNING")

	out, err = runCLI(t, "delete", "--endpoint", endpoint, "--id", created[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "deleted")
}

func TestRun_Errors(t *testing.T) {
	endpoint := startAPI(t)

	_, err := runCLI(t)
	assert.Error(t, err)

	_, err = runCLI(t, "frobnicate")
	assert.ErrorContains(t, err, "unknown command")

	_, err = runCLI(t, "get", "--endpoint", endpoint)
	assert.ErrorContains(t, err, "--id is required")

	_, err = runCLI(t, "create", "--endpoint", endpoint, "--title", "abc")
	assert.ErrorContains(t, err, "title must be at least 4 characters")

	_, err = runCLI(t, "get", "--endpoint", endpoint, "--id", "missing")
	assert.True(t, taskclient.IsNotFound(err))
}
