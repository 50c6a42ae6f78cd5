package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/horasett/payroll-engine/cli"
	"github.com/horasett/payroll-engine/payroll"
	"github.com/horasett/payroll-engine/payroll/store"
)

// Monday 10 March 2025.
func now() time.Time {
	return time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
}

// harness runs each command on a fresh CLI over one shared memory store,
// the way separate invocations share a database file.
type harness struct {
	storage *store.TxMemory
	locale  string
	input   io.Reader
}

func newHarness() *harness {
	return &harness{storage: store.NewTxMemory(), locale: "es_ES.UTF-8"}
}

func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := cli.NewCLI(cli.Options{
		Output:    &out,
		ErrOutput: io.Discard,
		Input:     h.input,
		Storage:   h.storage,
		Now:       now,
		Locale:    h.locale,
	})
	err := app.Run(context.Background(), args)
	return out.String(), err
}

func (h *harness) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := h.run(t, args...)
	require.NoError(t, err, strings.Join(args, " "))
	return out
}

// =============================================================================
// RECORDS
// =============================================================================

func TestRecord_SaveGetListDelete(t *testing.T) {
	h := newHarness()

	out := h.mustRun(t, "record", "save", "2025-03-03", "--normal", "8", "--overtime", "1.5", "--shift", "mañana", "--notes", "almacén")
	assert.Contains(t, out, "Guardado 2025-03-03: 9.5h (mañana)")

	out = h.mustRun(t, "record", "get", "2025-3-3")
	assert.Contains(t, out, "2025-03-03")
	assert.Contains(t, out, "almacén")

	h.mustRun(t, "record", "save", "2025-02-28", "--night", "6", "--shift", "night")

	out = h.mustRun(t, "record", "list")
	assert.Contains(t, out, "2025-03-03")
	assert.NotContains(t, out, "2025-02-28", "defaults to the current month")

	out = h.mustRun(t, "record", "list", "--all")
	assert.Contains(t, out, "2025-02-28")
	assert.Contains(t, out, "noche")

	h.mustRun(t, "record", "delete", "2025-03-03")
	h.mustRun(t, "record", "delete", "2025-03-03")

	_, err := h.run(t, "record", "get", "2025-03-03")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no record for 2025-03-03")

	out = h.mustRun(t, "record", "list", "--month", "2025-03")
	assert.Contains(t, out, "Sin registros")
}

func TestRecord_SaveValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"missing shift", []string{"--normal", "8"}, payroll.ErrShiftRequired},
		{"unknown shift", []string{"--normal", "8", "--shift", "evening"}, payroll.ErrInvalidShift},
		{"no hours", []string{"--shift", "tarde"}, payroll.ErrNoHours},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			_, err := h.run(t, append([]string{"record", "save", "2025-03-03"}, tt.args...)...)
			require.ErrorIs(t, err, tt.want)

			all, err := payroll.NewRecordStore(h.storage).All(context.Background())
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}

	h := newHarness()
	_, err := h.run(t, "record", "save", "2025-03-32", "--normal", "8", "--shift", "noche")
	require.ErrorIs(t, err, payroll.ErrInvalidDate)

	_, err = h.run(t, "record", "save", "2025-03-03", "--normal", "ocho", "--shift", "noche")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--normal")
}

func TestRecord_SaveUsesWeeklyDefaultShift(t *testing.T) {
	h := newHarness()

	h.mustRun(t, "shift", "set", "tarde")
	out := h.mustRun(t, "record", "save", "2025-03-10", "--normal", "8")

	assert.Contains(t, out, "(tarde)")
}

// =============================================================================
// SALARY
// =============================================================================

func TestSummary(t *testing.T) {
	h := newHarness()
	h.mustRun(t, "record", "save", "2025-03-03", "--normal", "8", "--shift", "mañana")

	out := h.mustRun(t, "summary", "--month", "2025-03")

	assert.Contains(t, out, "Nómina 2025-03")
	assert.Contains(t, out, "Horas Normales")
	assert.Contains(t, out, "84.00") // 8 x 10.50
	assert.Contains(t, out, "12.60") // IRPF 15%
	assert.Contains(t, out, "6.97")  // SS 8.30%
	assert.Contains(t, out, "64.43") // net
	assert.Contains(t, out, "8.3%")

	out = h.mustRun(t, "summary")
	assert.Contains(t, out, "Nómina 2025-03", "defaults to the current month")

	_, err := h.run(t, "summary", "--month", "marzo")
	require.ErrorIs(t, err, payroll.ErrInvalidMonth)
}

func TestHistory(t *testing.T) {
	h := newHarness()
	h.mustRun(t, "record", "save", "2025-02-03", "--normal", "8", "--shift", "mañana")

	out := h.mustRun(t, "history", "--months", "2")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "feb"), lines[1])
	assert.Contains(t, lines[1], "84.00")
	assert.True(t, strings.HasPrefix(lines[2], "mar"), lines[2])

	h.locale = "en_US.UTF-8"
	out = h.mustRun(t, "history")
	lines = strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7, "header plus the history_months default")
	assert.True(t, strings.HasPrefix(lines[6], "Mar"), lines[6])
}

// =============================================================================
// CONFIG & SHIFT
// =============================================================================

func TestConfig(t *testing.T) {
	h := newHarness()

	out := h.mustRun(t, "config", "show")
	assert.Contains(t, out, "Hora normal      10.50 €")

	out = h.mustRun(t, "config", "set", "--normal-rate", "12", "--irpf", "10", "--language", "en")
	assert.Contains(t, out, "Hora normal      12.00 €")
	assert.Contains(t, out, "IRPF             10%")
	assert.Contains(t, out, "Idioma           en")

	out = h.mustRun(t, "config", "show")
	assert.Contains(t, out, "Hora extra       15.75 €", "untouched fields keep their value")
	assert.Contains(t, out, "Hora normal      12.00 €")

	_, err := h.run(t, "config", "set")
	require.Error(t, err)
	_, err = h.run(t, "config", "set", "--language", "fr")
	require.Error(t, err)
	_, err = h.run(t, "config", "set", "--ss", "mucho")
	require.Error(t, err)

	out = h.mustRun(t, "config", "reset")
	assert.Contains(t, out, "Hora normal      10.50 €")
}

func TestShift(t *testing.T) {
	h := newHarness()

	out := h.mustRun(t, "shift", "show")
	assert.Contains(t, out, "Sin turno predeterminado")

	h.mustRun(t, "shift", "set", "night")
	out = h.mustRun(t, "shift", "show")
	assert.Equal(t, "noche\n", out)

	h.mustRun(t, "shift", "clear")
	out = h.mustRun(t, "shift", "show")
	assert.Contains(t, out, "Sin turno predeterminado")

	_, err := h.run(t, "shift", "set", "siesta")
	require.ErrorIs(t, err, payroll.ErrInvalidShift)
}

// =============================================================================
// DATA
// =============================================================================

func TestExportResetImport(t *testing.T) {
	h := newHarness()
	h.mustRun(t, "record", "save", "2025-03-03", "--normal", "8", "--shift", "mañana")
	h.mustRun(t, "record", "save", "2025-03-04", "--holiday", "8", "--shift", "noche")

	exported := h.mustRun(t, "export")
	var snap payroll.Snapshot
	require.NoError(t, json.Unmarshal([]byte(exported), &snap))
	assert.Equal(t, 2, snap.Metadata.TotalRecords)

	_, err := h.run(t, "reset")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")

	h.mustRun(t, "reset", "--yes")
	assert.Contains(t, h.mustRun(t, "record", "list", "--all"), "Sin registros")

	h.input = strings.NewReader(exported)
	h.mustRun(t, "import", "-")

	out := h.mustRun(t, "record", "list", "--all")
	assert.Contains(t, out, "2025-03-03")
	assert.Contains(t, out, "2025-03-04")
}

func TestExportImportFile(t *testing.T) {
	h := newHarness()
	h.mustRun(t, "config", "set", "--ss", "6.35")
	path := filepath.Join(t.TempDir(), "backup.json")

	out := h.mustRun(t, "export", "-o", path)
	assert.Contains(t, out, path)

	other := newHarness()
	other.mustRun(t, "import", path)
	assert.Contains(t, other.mustRun(t, "config", "show"), "Seguridad Social 6.35%")

	_, err := other.run(t, "import", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	other.input = strings.NewReader(`{"version": "1.0"}`)
	_, err = other.run(t, "import", "-")
	require.ErrorIs(t, err, payroll.ErrInvalidSnapshot)
}

func TestDemo(t *testing.T) {
	h := newHarness()

	out := h.mustRun(t, "demo", "list")
	assert.Contains(t, out, "full-month")
	assert.Contains(t, out, "half-year")

	h.mustRun(t, "demo", "load", "full-month")
	out = h.mustRun(t, "record", "list")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 22, "header plus the 21 weekdays of March 2025")

	_, err := h.run(t, "demo", "load", "nope")
	require.Error(t, err)
}

// =============================================================================
// SETTINGS & SERVE
// =============================================================================

func TestInvalidSettings(t *testing.T) {
	h := newHarness()

	_, err := h.run(t, "config", "show", "--store", "redis")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown store "redis"`)

	t.Setenv("HORASETT_LOG_FORMAT", "xml")
	_, err = h.run(t, "config", "show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_format")
}

func TestSQLiteStoreFromFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "horasett.db")
	run := func(args ...string) string {
		var out bytes.Buffer
		app := cli.NewCLI(cli.Options{Output: &out, ErrOutput: io.Discard, Now: now, Locale: "es"})
		require.NoError(t, app.Run(context.Background(), append([]string{"--sqlite-path", path}, args...)))
		return out.String()
	}

	run("record", "save", "2025-03-03", "--normal", "8", "--shift", "mañana")

	assert.Contains(t, run("record", "list"), "2025-03-03", "second invocation reads the same file")
}

func TestServe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listening := make(chan string, 1)
	app := cli.NewCLI(cli.Options{
		Output:    io.Discard,
		ErrOutput: io.Discard,
		Storage:   store.NewTxMemory(),
		Now:       now,
		OnListen:  func(addr string) { listening <- addr },
	})

	done := make(chan error, 1)
	go func() { done <- app.Run(ctx, []string{"serve", "--addr", "127.0.0.1:0"}) }()

	var addr string
	select {
	case addr = <-listening:
	case err := <-done:
		t.Fatalf("serve exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get("http://" + addr + "/api/config")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
