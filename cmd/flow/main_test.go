package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flow/internal/driver"
)

type cliResult struct {
	stdout string
	stderr string
	err    error
}

func execute(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	root, a := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--color", "off"}, args...))
	err := root.Execute()
	a.close()
	return cliResult{stdout: out.String(), stderr: errOut.String(), err: err}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestEval(t *testing.T) {
	res := execute(t, "", "eval", "2+3*4")
	require.NoError(t, res.err)
	assert.Equal(t, "14\n", res.stdout)

	res = execute(t, "", "eval", "(2", "+", "3)", "*", "4")
	require.NoError(t, res.err)
	assert.Equal(t, "20\n", res.stdout)
}

func TestEvalDiagnostics(t *testing.T) {
	res := execute(t, "", "eval", "2+")
	require.ErrorIs(t, res.err, errReported)
	assert.Empty(t, res.stdout)
	assert.True(t, strings.HasPrefix(res.stderr, "ERROR: expected NUMBER but got END OF FILE at line 1, column 3.\n --> <input>:1:3 [SYN2001]\n"), res.stderr)
}

func TestEvalFault(t *testing.T) {
	res := execute(t, "", "eval", "1/0")
	require.ErrorIs(t, res.err, errReported)
	assert.Equal(t, "panic VM1001: Division by zero\nat <input>:1:2\n", res.stderr)
}

func TestEvalTree(t *testing.T) {
	res := execute(t, "", "eval", "--tree", "1+2")
	require.NoError(t, res.err)
	assert.Equal(t, "BINARY EXPRESSION\n├── LITERAL EXPRESSION 1\n├── PLUS\n└── LITERAL EXPRESSION 2\n3\n", res.stdout)
}

func TestEvalTimings(t *testing.T) {
	res := execute(t, "", "--timings", "eval", "1+1")
	require.NoError(t, res.err)
	assert.Equal(t, "2\n", res.stdout)
	assert.Contains(t, res.stderr, "INFO: timings (run): total")
	assert.Contains(t, res.stderr, "timings:\n  lex")

	res = execute(t, "", "--timings", "--quiet", "eval", "1+1")
	require.NoError(t, res.err)
	assert.NotContains(t, res.stderr, "INFO:")
	assert.NotContains(t, res.stderr, "timings:")
}

func TestParse(t *testing.T) {
	res := execute(t, "", "parse", "-e", "(7)")
	require.NoError(t, res.err)
	assert.Equal(t, "PARENTHESES EXPRESSION\n├── LEFT PARENTHESIS\n├── LITERAL EXPRESSION 7\n└── RIGHT PARENTHESIS\n", res.stdout)

	res = execute(t, "", "parse", "--format", "json", "-e", "1+2")
	require.NoError(t, res.err)
	var node map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &node))
	assert.Equal(t, "BINARY EXPRESSION", node["type"])
	assert.Equal(t, "PLUS", node["operator"])

	res = execute(t, "", "parse", "--format", "yaml", "-e", "5")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "type: LITERAL EXPRESSION")
	assert.Contains(t, res.stdout, "value: 5")

	res = execute(t, "", "parse", "--format", "xml", "-e", "5")
	require.Error(t, res.err)

	res = execute(t, "", "parse", "-e", "1 2")
	require.ErrorIs(t, res.err, errReported)
	assert.Contains(t, res.stderr, "expected END OF FILE but got NUMBER")
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calc.flow")
	writeFile(t, path, "1/0")
	res := execute(t, "", "parse", path)
	require.NoError(t, res.err, "parse does not evaluate")
	assert.True(t, strings.HasPrefix(res.stdout, "BINARY EXPRESSION\n"))

	res = execute(t, "", "parse")
	require.Error(t, res.err)
}

func TestTokenize(t *testing.T) {
	res := execute(t, "", "tokenize", "-e", "1+2")
	require.NoError(t, res.err)
	lines := strings.Split(strings.TrimSuffix(res.stdout, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"NUMBER", "1", "at", "1:1-1:2"}, strings.Fields(lines[0])[1:])
	assert.Contains(t, lines[3], "END OF FILE")

	res = execute(t, "", "tokenize", "-e", "1 $")
	require.ErrorIs(t, res.err, errReported)
	assert.Contains(t, res.stderr, "unknown character '$' at line 1, column 3.")
	assert.Contains(t, res.stdout, "UNKNOWN")

	res = execute(t, "", "tokenize", "--format", "json", "-e", "7")
	require.NoError(t, res.err)
	assert.True(t, json.Valid([]byte(res.stdout)))
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "calc.flow")
	writeFile(t, path, "10 -\n  2 -\n  3\n")

	res := execute(t, "", "run", path)
	require.NoError(t, res.err)
	assert.Equal(t, "5\n", res.stdout)

	txt := filepath.Join(dir, "calc.txt")
	writeFile(t, txt, "1")
	res = execute(t, "", "run", txt)
	require.ErrorIs(t, res.err, driver.ErrInvalidExtension)

	res = execute(t, "", "run", filepath.Join(dir, "missing.flow"))
	require.ErrorIs(t, res.err, driver.ErrFileNotFound)
}

func TestRunDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.flow"), "1+1")
	writeFile(t, filepath.Join(dir, "sub", "b.flow"), "2*3")
	writeFile(t, filepath.Join(dir, "skip.txt"), "nope")

	res := execute(t, "", "run", "--ui", "off", "--jobs", "2", dir)
	require.NoError(t, res.err)
	assert.Equal(t, "a.flow: 2\nsub/b.flow: 6\n", res.stdout)

	writeFile(t, filepath.Join(dir, "bad.flow"), "8/(4-4)")
	res = execute(t, "", "run", "--ui", "off", dir)
	require.ErrorIs(t, res.err, errReported)
	assert.Contains(t, res.stderr, "panic VM1001: Division by zero")
	assert.Contains(t, res.stderr, "1 of 3 files failed")

	res = execute(t, "", "run", "--ui", "sideways", dir)
	require.Error(t, res.err)
}

func TestRunCacheFromConfig(t *testing.T) {
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")
	cfgPath := filepath.Join(dir, "flow.toml")
	writeFile(t, cfgPath, "[run]\ncache = true\ncache_dir = \""+filepath.ToSlash(cacheDir)+"\"\n")
	writeFile(t, filepath.Join(dir, "src", "calc.flow"), "6*7")

	for i := 0; i < 2; i++ {
		res := execute(t, "", "--config", cfgPath, "run", "--ui", "off", filepath.Join(dir, "src"))
		require.NoError(t, res.err)
		assert.Equal(t, "calc.flow: 42\n", res.stdout)
	}
	assert.DirExists(t, filepath.Join(cacheDir, "results"))

	res := execute(t, "", "--config", cfgPath, "run", "--clear-cache", "--cache=false", filepath.Join(dir, "src", "calc.flow"))
	require.NoError(t, res.err)
	assert.NoDirExists(t, filepath.Join(cacheDir, "results"))
}

func TestInvalidConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "flow.toml")
	writeFile(t, cfgPath, "[diagnostics]\ncolor = \"purple\"\n")
	res := execute(t, "", "--config", cfgPath, "eval", "1")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "diagnostics.color")
}

func TestRepl(t *testing.T) {
	res := execute(t, "1+2\n:tree\n4\n:quit\n", "--quiet", "repl", "--ui", "off")
	require.NoError(t, res.err)
	assert.Equal(t, ">>> 3\n>>> tree display on\n>>> LITERAL EXPRESSION 4\n4\n>>> ", res.stdout)

	res = execute(t, "", "--quiet", "repl", "--ui", "off", "--prompt", "flow> ")
	require.NoError(t, res.err)
	assert.Equal(t, "flow> \n", res.stdout)
}

func TestVersion(t *testing.T) {
	res := execute(t, "", "version", "--format", "json", "--full")
	require.NoError(t, res.err)
	var payload versionPayload
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &payload))
	assert.Equal(t, "flow", payload.Tool)
	assert.NotEmpty(t, payload.Version)
	assert.NotEmpty(t, payload.GitCommit)

	res = execute(t, "", "version")
	require.NoError(t, res.err)
	assert.True(t, strings.HasPrefix(res.stdout, "flow "))

	res = execute(t, "", "version", "--format", "xml")
	require.Error(t, res.err)
}

func TestTrace(t *testing.T) {
	res := execute(t, "", "--trace", "-", "eval", "1+1")
	require.NoError(t, res.err)
	assert.Equal(t, "2\n", res.stdout)
	assert.Contains(t, res.stderr, "flow eval")
	assert.Contains(t, res.stderr, "run_id=")

	path := filepath.Join(t.TempDir(), "trace.ndjson")
	res = execute(t, "", "--trace", path, "--trace-level", "detail", "eval", "1")
	require.NoError(t, res.err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		assert.True(t, json.Valid([]byte(line)), line)
	}

	res = execute(t, "", "--trace-level", "loud", "eval", "1")
	require.Error(t, res.err)
}

func TestUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, " ON ": uiModeOn, "off": uiModeOff} {
		got, err := readUIMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.True(t, shouldUseTUI(uiModeOn))
	assert.False(t, shouldUseTUI(uiModeOff))
}

func TestProfiling(t *testing.T) {
	dir := t.TempDir()
	cpu := filepath.Join(dir, "cpu.pprof")
	mem := filepath.Join(dir, "mem.pprof")
	res := execute(t, "", "--cpu-profile", cpu, "--mem-profile", mem, "eval", "6*7")
	require.NoError(t, res.err)
	assert.Equal(t, "42\n", res.stdout)
	assert.FileExists(t, cpu)
	assert.FileExists(t, mem)
}
