package cli

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joacominatel/minadmin/internal/app"
	"github.com/joacominatel/minadmin/internal/config"
	"github.com/joacominatel/minadmin/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDriver struct {
	dsn      string
	tables   []string
	columns  map[string][]string
	result   *database.ResultTable
	affected int64
	execErr  error
	executed []string
	closed   bool
}

func (f *fakeDriver) Connect(_ context.Context, dsn string) error { f.dsn = dsn; return nil }
func (f *fakeDriver) Close() error                                { f.closed = true; return nil }
func (f *fakeDriver) Ping(context.Context) error                  { return nil }
func (f *fakeDriver) DatabaseName() string                        { return "college_details" }

func (f *fakeDriver) ListTables(context.Context) ([]string, error) { return f.tables, nil }

func (f *fakeDriver) TableExists(_ context.Context, table string) (bool, error) {
	_, ok := f.columns[table]
	return ok, nil
}

func (f *fakeDriver) DiscoverColumns(_ context.Context, table string) ([]string, error) {
	cols, ok := f.columns[table]
	if !ok {
		return nil, errors.New(`relation "` + table + `" does not exist`)
	}
	return cols, nil
}

func (f *fakeDriver) Exec(_ context.Context, query string) (int64, error) {
	f.executed = append(f.executed, query)
	return f.affected, f.execErr
}

func (f *fakeDriver) Query(context.Context, string) (*database.ResultTable, error) {
	return f.result, nil
}

func newStudentsDriver() *fakeDriver {
	return &fakeDriver{
		tables:  []string{"students", "courses"},
		columns: map[string][]string{"students": {"id", "name"}},
		result: &database.ResultTable{
			Columns: []string{"id", "name"},
			Rows: []database.Row{
				{"id": "1", "name": "O'Brien"},
				{"id": "2"},
			},
		},
	}
}

// run executes the CLI against drv with an isolated config and log file.
func run(t *testing.T, drv *fakeDriver, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvDSN, "")

	dir := t.TempDir()
	root := NewRootCmd(Options{
		NewDriver: func(*slog.Logger) database.Driver { return drv },
	})

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{
		"--config", filepath.Join(dir, "config.yaml"),
		"--log-file", filepath.Join(dir, "minadmin.log"),
	}, args...))

	err := root.Execute()
	return out.String(), err
}

const testDSN = "postgresql://root@localhost:5432/college_details"

func TestTables(t *testing.T) {
	drv := newStudentsDriver()
	out, err := run(t, drv, "--dsn", testDSN, "tables")
	require.NoError(t, err)
	assert.Equal(t, "students\ncourses\n", out)
	assert.Equal(t, testDSN, drv.dsn)
	assert.True(t, drv.closed)
}

func TestNoDSN(t *testing.T) {
	_, err := run(t, newStudentsDriver(), "tables")
	assert.ErrorIs(t, err, ErrNoDSN)
}

func TestDSNFromEnvironment(t *testing.T) {
	drv := newStudentsDriver()
	dir := t.TempDir()
	t.Setenv(config.EnvDSN, testDSN)

	root := NewRootCmd(Options{NewDriver: func(*slog.Logger) database.Driver { return drv }})
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{
		"--config", filepath.Join(dir, "config.yaml"),
		"--log-file", filepath.Join(dir, "minadmin.log"),
		"tables",
	})
	require.NoError(t, root.Execute())
	assert.Equal(t, testDSN, drv.dsn)
}

func TestDescribe(t *testing.T) {
	out, err := run(t, newStudentsDriver(), "--dsn", testDSN, "describe", "students")
	require.NoError(t, err)
	assert.Equal(t, "id\nname\n", out)

	_, err = run(t, newStudentsDriver(), "--dsn", testDSN, "describe", "ghosts")
	var schemaErr *app.ErrSchema
	assert.ErrorAs(t, err, &schemaErr)
}

func TestView(t *testing.T) {
	tests := []struct {
		name   string
		format string
		check  func(t *testing.T, out string)
	}{
		{
			name:   "table",
			format: "table",
			check: func(t *testing.T, out string) {
				assert.Contains(t, out, "O'Brien")
				assert.Contains(t, out, nullText)
				assert.Contains(t, out, "(2 rows)")
			},
		},
		{
			name:   "csv",
			format: "csv",
			check: func(t *testing.T, out string) {
				assert.Equal(t, "id,name\n1,O'Brien\n2,\n", out)
			},
		},
		{
			name:   "json",
			format: "json",
			check: func(t *testing.T, out string) {
				compact := strings.Join(strings.Fields(out), "")
				assert.Equal(t, `[{"id":"1","name":"O'Brien"},{"id":"2","name":null}]`, compact)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, newStudentsDriver(), "--dsn", testDSN, "view", "students", "-o", tt.format)
			require.NoError(t, err)
			tt.check(t, out)
		})
	}
}

func TestView_UnknownFormat(t *testing.T) {
	_, err := run(t, newStudentsDriver(), "--dsn", testDSN, "view", "students", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestCreate(t *testing.T) {
	drv := newStudentsDriver()
	out, err := run(t, drv, "--dsn", testDSN, "create", "grades", "-c", "id:INT", "-c", "name:varchar")
	require.NoError(t, err)
	assert.Equal(t, "Table 'grades' created.\n", out)
	assert.Equal(t, []string{"CREATE TABLE grades (id INT, name VARCHAR(255))"}, drv.executed)
}

func TestCreate_Existing(t *testing.T) {
	drv := newStudentsDriver()
	_, err := run(t, drv, "--dsn", testDSN, "create", "students", "-c", "id:INT")
	require.Error(t, err)
	assert.Equal(t, "Table already exists. Use another name.", err.Error())
	assert.ErrorIs(t, err, app.ErrTableExists)
	assert.Empty(t, drv.executed)
}

func TestCreate_BadColumn(t *testing.T) {
	_, err := run(t, newStudentsDriver(), "--dsn", testDSN, "create", "grades", "-c", "id")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected name:type")
}

func TestInsert(t *testing.T) {
	drv := newStudentsDriver()
	drv.affected = 1
	out, err := run(t, drv, "--dsn", testDSN, "insert", "students", "-s", "id=1", "-s", "name=O'Brien")
	require.NoError(t, err)
	assert.Equal(t, "Data inserted into 'students' (1 row(s) affected)\n", out)
	assert.Equal(t, []string{"INSERT INTO students (id, name) VALUES ('1', 'O''Brien')"}, drv.executed)
}

func TestInsert_UnknownColumn(t *testing.T) {
	drv := newStudentsDriver()
	_, err := run(t, drv, "--dsn", testDSN, "insert", "students", "-s", "age=3")
	assert.ErrorIs(t, err, app.ErrUnknownColumn)
	assert.Empty(t, drv.executed)
}

func TestDelete(t *testing.T) {
	drv := newStudentsDriver()
	drv.affected = 2
	out, err := run(t, drv, "--dsn", testDSN, "delete", "students", "--where", "id > 0")
	require.NoError(t, err)
	assert.Equal(t, "2 row(s) deleted from 'students'.\n", out)
	assert.Equal(t, []string{"DELETE FROM students WHERE id > 0"}, drv.executed)
}

func TestDelete_RequiresWhere(t *testing.T) {
	drv := newStudentsDriver()
	_, err := run(t, drv, "--dsn", testDSN, "delete", "students", "--where", "   ")
	require.Error(t, err)
	assert.Empty(t, drv.executed)
}

func TestRootRunsTUI(t *testing.T) {
	t.Setenv(config.EnvDSN, "")
	dir := t.TempDir()

	var gotDSN string
	var gotService *app.Service
	root := NewRootCmd(Options{
		NewDriver: func(*slog.Logger) database.Driver { return newStudentsDriver() },
		RunTUI: func(service *app.Service, _ *config.Config, _ string, dsn string) error {
			gotService = service
			gotDSN = dsn
			return nil
		},
	})
	root.SetArgs([]string{
		"--config", filepath.Join(dir, "config.yaml"),
		"--log-file", filepath.Join(dir, "minadmin.log"),
		"--dsn", testDSN,
	})

	require.NoError(t, root.Execute())
	assert.NotNil(t, gotService)
	assert.Equal(t, testDSN, gotDSN)
}

func TestLogLevel(t *testing.T) {
	cfg := &config.Config{Preferences: config.Preferences{LogLevel: "warn"}}
	assert.Equal(t, slog.LevelWarn, logLevel(cfg, false))
	assert.Equal(t, slog.LevelDebug, logLevel(cfg, true))

	cfg.Preferences.LogLevel = "chatty"
	assert.Equal(t, slog.LevelInfo, logLevel(cfg, false))
}

func TestUnreadableConfigIsNotOverwritten(t *testing.T) {
	t.Setenv(config.EnvDSN, "")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("connections: [\n"), 0o600))

	var got *config.Config
	root := NewRootCmd(Options{
		NewDriver: func(*slog.Logger) database.Driver { return newStudentsDriver() },
		RunTUI: func(_ *app.Service, cfg *config.Config, cfgPath, _ string) error {
			got = cfg
			conn, err := config.ParseDSN(testDSN)
			require.NoError(t, err)
			return config.SaveConnection(cfg, conn, cfgPath)
		},
	})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--config", path, "--log-file", filepath.Join(dir, "minadmin.log")})

	err := root.Execute()
	require.ErrorIs(t, err, config.ErrReadOnly)
	require.NotNil(t, got)
	assert.True(t, got.ReadOnly)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "connections: [\n", string(raw))
}

func TestVerboseLogging(t *testing.T) {
	t.Setenv(config.EnvDSN, "")
	dir := t.TempDir()
	logPath := filepath.Join(dir, "minadmin.log")

	root := NewRootCmd(Options{
		NewDriver: func(*slog.Logger) database.Driver { return newStudentsDriver() },
	})
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs([]string{
		"--config", filepath.Join(dir, "config.yaml"),
		"--log-file", logPath,
		"--dsn", testDSN,
		"-v", "tables",
	})
	require.NoError(t, root.Execute())

	assert.Equal(t, "students\ncourses\n", stdout.String())
	assert.Contains(t, stderr.String(), "level=INFO msg=connected")

	raw, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"msg":"connected"`)
	assert.Contains(t, string(raw), `"database":"college_details"`)
}

func TestQuietLoggingStaysInFile(t *testing.T) {
	t.Setenv(config.EnvDSN, "")
	dir := t.TempDir()

	root := NewRootCmd(Options{
		NewDriver: func(*slog.Logger) database.Driver { return newStudentsDriver() },
	})
	var stderr bytes.Buffer
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&stderr)
	root.SetArgs([]string{
		"--config", filepath.Join(dir, "config.yaml"),
		"--log-file", filepath.Join(dir, "minadmin.log"),
		"--dsn", testDSN,
		"tables",
	})
	require.NoError(t, root.Execute())
	assert.Empty(t, stderr.String())
}

func TestLogFileClosedOnFailure(t *testing.T) {
	t.Setenv(config.EnvDSN, "")
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
	}{
		{name: "command error", args: []string{"--dsn", testDSN, "create", "grades", "-c", "id"}},
		{name: "outcome failure", args: []string{"--dsn", testDSN, "create", "students", "-c", "id:INT"}},
		{name: "unknown profile", args: []string{"--connection", "nope", "tables"}},
		{name: "success", args: []string{"--dsn", testDSN, "tables"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, g := newRootCmd(Options{
				NewDriver: func(*slog.Logger) database.Driver { return newStudentsDriver() },
			})
			root.SetOut(&bytes.Buffer{})
			root.SetErr(&bytes.Buffer{})
			root.SetArgs(append([]string{
				"--config", filepath.Join(dir, "config.yaml"),
				"--log-file", filepath.Join(dir, "minadmin.log"),
			}, tt.args...))

			_ = root.Execute()
			assert.NotNil(t, g.logger)
			assert.Nil(t, g.logFile)
		})
	}
}
