package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rpggio/tacboard/internal/domain/tac"
	"github.com/rpggio/tacboard/internal/render"
	"github.com/rpggio/tacboard/internal/repository/mocks"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	require.NoError(t, w.Write(tac.Headers()))
	require.NoError(t, w.WriteAll([][]string{
		{"2021", "TAC-01", "1", "", "", "Recompor mata", "Concluído", "", "", "", "", "", "", ""},
		{"2021", "TAC-01", "2", "", "", "Monitorar", "Pendente", "", "", "", "", "", "", ""},
		{"2022", "TAC-02", "1", "I", "", "", "", "", "Relatório", "Concluído", "", "", "", ""},
	}))
	path := filepath.Join(t.TempDir(), "tacs.csv")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		exportCmd.Flags().VisitAll(func(f *pflag.Flag) { _ = f.Value.Set(f.DefValue); f.Changed = false })
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestExport_LocalInput(t *testing.T) {
	t.Setenv("TACBOARD_CONFIG_PATH", "")
	input := writeFixture(t)

	out, err := runCLI(t, "export", "--input", input, "--status", "Concluído")
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "TAC-01", rows[1][1])
	require.Equal(t, "TAC-02", rows[2][1])
}

func TestExport_ToFile(t *testing.T) {
	t.Setenv("TACBOARD_CONFIG_PATH", "")
	input := writeFixture(t)
	target := filepath.Join(t.TempDir(), "out.txt")

	_, err := runCLI(t, "export", "--input", input, "--format", "txt", "--documento", "TAC-02", "--out", target)
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Contains(t, string(data), "1 de 3 registros")
}

func TestExport_Publish(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TACBOARD_CONFIG_PATH", "")
	t.Setenv("TACBOARD_PUBLISH_DRIVER", "dir")
	t.Setenv("TACBOARD_PUBLISH_DIR", dir)
	input := writeFixture(t)

	out, err := runCLI(t, "export", "--input", input, "--format", "json", "--publish")
	require.NoError(t, err)

	location := strings.TrimSpace(out)
	require.True(t, strings.HasPrefix(location, dir), location)
	require.True(t, strings.HasSuffix(location, ".json"), location)
	_, err = os.Stat(location)
	require.NoError(t, err)
}

func TestExport_MissingSource(t *testing.T) {
	t.Setenv("TACBOARD_CONFIG_PATH", "")
	t.Setenv("TACBOARD_SOURCE_URL", "")

	_, err := runCLI(t, "export")
	require.ErrorContains(t, err, "source.url is required")
}

func TestExport_UnknownFormat(t *testing.T) {
	t.Setenv("TACBOARD_CONFIG_PATH", "")

	_, err := runCLI(t, "export", "--input", writeFixture(t), "--format", "pdf")
	require.ErrorContains(t, err, "unknown export format")
}

func TestParseLogLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, parseLogLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, parseLogLevel("warn"))
	require.Equal(t, slog.LevelInfo, parseLogLevel("bogus"))
}

func TestLogFileWriter_Truncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tacboard.log")
	w, file, err := newLogFileWriter(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = file.Close() })

	chunk := bytes.Repeat([]byte("x"), 1024*1024)
	for i := 0; i < 7; i++ {
		_, err := w.Write(chunk)
		require.NoError(t, err)
	}

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.LessOrEqual(t, info.Size(), int64(maxLogSizeBytes))
}

func TestPublishExport(t *testing.T) {
	logger = slog.New(slog.DiscardHandler)
	at := time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)

	p := &mocks.ArtifactPublisher{}
	p.On("Publish", mock.Anything, "tacs-20240309-140500.xlsx", render.FormatXLSX.ContentType(), []byte("data")).
		Return("s3://reports/tacs-20240309-140500.xlsx", nil).Once()

	location, err := publishExport(context.Background(), p, render.FormatXLSX, at, []byte("data"))
	require.NoError(t, err)
	require.Equal(t, "s3://reports/tacs-20240309-140500.xlsx", location)
	p.AssertExpectations(t)

	failing := &mocks.ArtifactPublisher{}
	failing.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("denied"))
	_, err = publishExport(context.Background(), failing, render.FormatCSV, at, nil)
	require.ErrorContains(t, err, "publish tacs-20240309-140500.csv: denied")
}
