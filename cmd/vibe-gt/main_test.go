package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/inodb/vibe-gt/internal/vcf"
)

const (
	plainFixture = "../../internal/vcf/testdata/format_example_4_5.vcf"
	gzipFixture  = "../../internal/vcf/testdata/format_example_4_5.vcf.gz"
	badFixture   = "../../internal/vcf/testdata/not_a_vcf.txt"
)

// runCLIWithConfig executes the root command against an isolated config file
// and returns what it wrote to stdout.
func runCLIWithConfig(t *testing.T, cfg string, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	logger = zap.NewNop()

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--config", cfg, "--log-level", "error"}, args...))
	err := root.Execute()
	return out.String(), err
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runCLIWithConfig(t, filepath.Join(t.TempDir(), "config.yaml"), args...)
}

func lines(s string) []string {
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "vibe-gt version dev (none) built unknown\n", out)
}

func TestErrorHint(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"missing file", fmt.Errorf("open: %w", fs.ErrNotExist), "Check that the file path is correct"},
		{"not a vcf", &vcf.ParseError{Kind: vcf.ErrInvalidVCFFile}, "Input must be a plain or gzip-compressed VCF starting with ##fileformat"},
		{"bad header", &vcf.ParseError{Kind: vcf.ErrInvalidSampleLine}, "Check the #CHROM header line: eight fixed columns, then FORMAT and sample names"},
		{"first line", &vcf.ParseError{Kind: vcf.ErrNoVariants, Err: vcf.ErrIncorrectAllele}, "The first data line must carry a parsable GT for every sample"},
		{"per-line kind", &vcf.ParseError{Kind: vcf.ErrPosNotInt}, ""},
		{"other", errors.New("boom"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorHint(tt.err))
		})
	}
}

type failingWriter struct{ err error }

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }

func TestRunView_ReadErrorKeepsFlushError(t *testing.T) {
	readErr := errors.New("connection reset")
	writeErr := errors.New("disk full")

	input := io.MultiReader(
		strings.NewReader("##fileformat=VCFv4.5\n"+
			"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tNA1\n"+
			"1\t100\t.\tA\tT\t.\tPASS\t.\tGT\t0/1\n"),
		iotest.ErrReader(readErr),
	)
	p, err := vcf.NewParserFromReader(input)
	require.NoError(t, err)
	defer p.Close()

	err = runView(p, failingWriter{writeErr}, "json", 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, vcf.ErrReadLine)
	assert.ErrorIs(t, err, readErr)
	assert.ErrorIs(t, err, writeErr)
}

func TestKindCmd(t *testing.T) {
	out, err := runCLI(t, "kind", plainFixture, gzipFixture)
	require.NoError(t, err)
	assert.Equal(t, []string{
		plainFixture + "\tplain",
		gzipFixture + "\tgzip",
	}, lines(out))

	_, err = runCLI(t, "kind", badFixture)
	require.Error(t, err)
	assert.ErrorIs(t, err, vcf.ErrInvalidVCFFile)
}

func TestSamplesCmd(t *testing.T) {
	out, err := runCLI(t, "samples", gzipFixture)
	require.NoError(t, err)
	assert.Equal(t, []string{"NA00001", "NA00002", "NA00003"}, lines(out))

	out, err = runCLI(t, "samples", "--ploidy", plainFixture)
	require.NoError(t, err)
	assert.Equal(t, "# ploidy=2", lines(out)[0])
}

func TestViewCmd(t *testing.T) {
	out, err := runCLI(t, "view", plainFixture)
	require.NoError(t, err)

	got := lines(out)
	require.Len(t, got, 25)
	assert.Equal(t, "##fileformat=VCFv4.5", got[0])
	assert.True(t, strings.HasPrefix(got[18], "#CHROM"))
	assert.Equal(t, "20\t14370\trs6054257\tG\tA\t29\tPASS\t.\tGT\t0/0\t1/0\t1/1", got[19])
	assert.Equal(t, "20\t1110696\trs6040355\tA\tG,T\t67\tPASS\t.\tGT\t1/2\t2/1\t2/2", got[21])
}

func TestViewCmd_JSONLimit(t *testing.T) {
	out, err := runCLI(t, "view", "-f", "json", "-n", "2", gzipFixture)
	require.NoError(t, err)

	got := lines(out)
	require.Len(t, got, 2)
	assert.Contains(t, got[0], `"pos":14370`)
	assert.Contains(t, got[1], `"filters":["q10"]`)
}

func TestViewCmd_UnknownFormat(t *testing.T) {
	_, err := runCLI(t, "view", "-f", "bed", plainFixture)
	assert.Error(t, err)
}

func TestStatsCmd(t *testing.T) {
	out, err := runCLI(t, "stats", "--workers", "3", plainFixture)
	require.NoError(t, err)

	got := lines(out)
	require.Len(t, got, 7)
	assert.True(t, strings.HasPrefix(got[0], "#CHROM\tPOS"))
	assert.Equal(t, "20\t14370\trs6054257\tG\tA\t3,3\t6\t0\t0.5000\t1\t1\tSNV\tfalse\ttrue", got[1])

	out, err = runCLI(t, "stats", "-f", "json", gzipFixture)
	require.NoError(t, err)
	got = lines(out)
	require.Len(t, got, 7)
	assert.Contains(t, got[6], `"totals"`)
	assert.Contains(t, got[6], `"variants":6`)
}

func TestCountCmd(t *testing.T) {
	out, err := runCLI(t, "count", "-j", "2", plainFixture, gzipFixture, plainFixture)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"#path\tkind\tsamples\tploidy\tvariants\terrors",
		plainFixture + "\tplain\t3\t2\t6\t0",
		gzipFixture + "\tgzip\t3\t2\t6\t0",
		plainFixture + "\tplain\t3\t2\t6\t0",
	}, lines(out))

	_, err = runCLI(t, "count", plainFixture, filepath.Join(t.TempDir(), "missing.vcf"))
	assert.Error(t, err)
}

// copyFixture copies the plain fixture into a temp dir so its mtime can change.
func copyFixture(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(plainFixture)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "calls.vcf")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoadCmd_DuckDB(t *testing.T) {
	db := filepath.Join(t.TempDir(), "gt.duckdb")
	input := copyFixture(t)

	out, err := runCLI(t, "load", "--db", db, input)
	require.NoError(t, err)
	assert.Equal(t, "6 variants in "+db+"\n", out)

	// Unchanged files are skipped.
	out, err = runCLI(t, "load", "--db", db, input)
	require.NoError(t, err)
	assert.Equal(t, "6 variants in "+db+"\n", out)

	// A changed file replaces its earlier rows.
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(input, later, later))
	out, err = runCLI(t, "load", "--db", db, input)
	require.NoError(t, err)
	assert.Equal(t, "6 variants in "+db+"\n", out)

	out, err = runCLI(t, "load", "--db", db, "--force", "--batch-size", "4", input)
	require.NoError(t, err)
	assert.Equal(t, "6 variants in "+db+"\n", out)

	// Distinct sources accumulate.
	out, err = runCLI(t, "load", "--db", db, gzipFixture)
	require.NoError(t, err)
	assert.Equal(t, "12 variants in "+db+"\n", out)
}

func TestLoadCmd_SQLite(t *testing.T) {
	db := filepath.Join(t.TempDir(), "gt.sqlite")

	out, err := runCLI(t, "load", "--backend", "sqlite", "--db", db, plainFixture, gzipFixture)
	require.NoError(t, err)
	assert.Equal(t, "12 variants in "+db+"\n", out)

	out, err = runCLI(t, "load", "--backend", "sqlite", "--db", db, plainFixture)
	require.NoError(t, err)
	assert.Equal(t, "12 variants in "+db+"\n", out)
}

func TestLoadCmd_Errors(t *testing.T) {
	_, err := runCLI(t, "load", plainFixture)
	assert.Error(t, err)

	_, err = runCLI(t, "load", "--backend", "postgres", "--db", filepath.Join(t.TempDir(), "x"), plainFixture)
	assert.Error(t, err)
}

func TestConfigCmd(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "config.yaml")

	out, err := runCLIWithConfig(t, cfg, "config", "set", "workers", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "Set workers = 4")

	out, err = runCLIWithConfig(t, cfg, "config", "get", "workers")
	require.NoError(t, err)
	assert.Equal(t, "4\n", out)

	out, err = runCLIWithConfig(t, cfg, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "batch_size: 1000")

	_, err = runCLIWithConfig(t, cfg, "config", "get", "no.such.key")
	assert.Error(t, err)
}
