package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c1nderscript/Cinder-s-Webscraper/pkg/core"
)

type env struct {
	t      *testing.T
	config string
	db     string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	logFile := filepath.Join(dir, "logs", "cinder.log")
	require.NoError(t, os.WriteFile(cfg, []byte("log:\n  file: "+logFile+"\nscraper:\n  output_dir: "+filepath.Join(dir, "out")+"\n"), 0o644))
	return &env{t: t, config: cfg, db: filepath.Join(dir, "data", "schedules.db")}
}

func (e *env) run(ctx context.Context, args ...string) (string, error) {
	var out bytes.Buffer
	full := append([]string{"--config", e.config, "--db", e.db}, args...)
	err := Execute(ctx, full, &out)
	return out.String(), err
}

func (e *env) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run(context.Background(), args...)
	require.NoError(e.t, err, out)
	return out
}

func TestCLI_AddGetListRemove(t *testing.T) {
	e := newEnv(t)

	out := e.mustRun("add", "hb", "builtin:heartbeat", "10")
	assert.Contains(t, out, `Task "hb" scheduled: builtin:heartbeat every 10s`)

	out = e.mustRun("get", "hb")
	assert.Contains(t, out, "hb\tevery 10s")

	out = e.mustRun("list")
	assert.Contains(t, out, "builtin:heartbeat")
	assert.Contains(t, out, "live")

	out = e.mustRun("update", "hb", "@every 1m")
	assert.Contains(t, out, "now runs every 1m0s")

	out = e.mustRun("schedules")
	assert.Contains(t, out, "hb\tevery 1m0s")

	out = e.mustRun("remove", "hb")
	assert.Contains(t, out, `Task "hb" removed.`)

	out = e.mustRun("remove", "hb")
	assert.Contains(t, out, `No scheduled task named "hb".`)

	_, err := e.run(context.Background(), "get", "hb")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestCLI_CreateIsStrict(t *testing.T) {
	e := newEnv(t)

	out := e.mustRun("create", "nightly", "scraping:scrape-websites", "24h")
	assert.Contains(t, out, `Schedule "nightly" created.`)

	_, err := e.run(context.Background(), "create", "nightly", "scraping:scrape-websites", "1h")
	assert.ErrorIs(t, err, core.ErrDuplicateName)

	out = e.mustRun("delete", "nightly")
	assert.Contains(t, out, `Schedule "nightly" deleted.`)

	out = e.mustRun("delete", "nightly")
	assert.Contains(t, out, `No schedule named "nightly".`)
}

func TestCLI_RejectsBadInput(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.run(ctx, "add", "hb", "heartbeat", "10")
	assert.ErrorIs(t, err, core.ErrInvalidLocator)

	_, err = e.run(ctx, "add", "hb", "builtin:heartbeat", "0")
	assert.ErrorIs(t, err, core.ErrInvalidInterval)

	_, err = e.run(ctx, "add", "hb", "nope:missing", "10")
	assert.ErrorIs(t, err, core.ErrUnknownLocator)

	_, err = e.run(ctx, "add", "hb")
	assert.Error(t, err)
}

func TestCLI_Jobs(t *testing.T) {
	e := newEnv(t)

	out := e.mustRun("jobs")
	assert.Contains(t, out, "builtin:heartbeat")
	assert.Contains(t, out, "scraping:scrape-websites")
}

func TestCLI_RunSeedsDummyTask(t *testing.T) {
	e := newEnv(t)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	_, err := e.run(ctx, "run")
	require.NoError(t, err)

	out := e.mustRun("get", "dummy")
	assert.Contains(t, out, "dummy\tevery 5s")
}

func TestCLI_RunKeepsExistingTasks(t *testing.T) {
	e := newEnv(t)
	e.mustRun("add", "hb", "builtin:heartbeat", "30s")

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_, err := e.run(ctx, "run")
	require.NoError(t, err)

	_, err = e.run(context.Background(), "get", "dummy")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestStorageOptions_DebugLogsSQL(t *testing.T) {
	a := &app{}
	assert.Empty(t, a.storageOptions())

	a.debug = true
	assert.Len(t, a.storageOptions(), 1)
}

func TestCLI_DebugFlagOpensStorage(t *testing.T) {
	e := newEnv(t)

	out := e.mustRun("--debug", "add", "hb", "builtin:heartbeat", "10")
	assert.Contains(t, out, `Task "hb" scheduled`)

	out = e.mustRun("get", "hb")
	assert.Contains(t, out, "hb\tevery 10s")
}
