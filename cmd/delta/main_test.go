package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/delta/internal/config"
	"github.com/aretw0/delta/pkg/domain"
	"github.com/aretw0/delta/pkg/registry"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// execute runs the root command. Persistent flags keep their values between
// runs, so every call spells out the flags it depends on.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func base(output, store string, extra ...string) []string {
	args := []string{"--output", output, "--color", "never", "--store", store, "--automaton", "ab1", "--log-level", "error"}
	return append(args, extra...)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "delta version ")
}

func TestCheck_Text(t *testing.T) {
	out, err := execute(t, "", append([]string{"check", "ab111ba"}, base("text", "none")...)...)
	require.NoError(t, err)

	assert.Contains(t, out, `Read "a" at q1, goto q2`)
	assert.Contains(t, out, "[Pass] accepted in q4")
}

func TestCheck_RejectExitsNonZero(t *testing.T) {
	out, err := execute(t, "", append([]string{"check", "ab", "1"}, base("text", "none")...)...)
	require.Error(t, err)

	assert.ErrorIs(t, err, errRejected)
	assert.Contains(t, err.Error(), "1 of 2")
	assert.Contains(t, out, `== "1"`)
	assert.Contains(t, out, `Read "1" at q1, reject`)
}

func TestCheck_JSON(t *testing.T) {
	out, err := execute(t, "", append([]string{"check", "ab"}, base("json", "none")...)...)
	require.NoError(t, err)

	var run domain.Run
	require.NoError(t, json.Unmarshal([]byte(out), &run))
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, "ab1", run.Automaton)
	assert.Equal(t, domain.Accept, run.Result.Verdict)
	assert.Equal(t, domain.StateID(5), run.Result.Final)
}

func TestCheck_Stdin(t *testing.T) {
	out, err := execute(t, "ab\nba\n", append([]string{"check"}, base("text", "none")...)...)
	require.NoError(t, err)

	assert.Contains(t, out, `== "ab"`)
	assert.Contains(t, out, `== "ba"`)
}

func TestCheck_UnknownAutomaton(t *testing.T) {
	args := append([]string{"check", "ab"}, base("text", "none")...)
	args = append(args, "--automaton", "nope")

	_, err := execute(t, "", args...)
	require.Error(t, err)
	assert.ErrorIs(t, err, registry.ErrNotFound)
	assert.Contains(t, err.Error(), `"nope"`)
}

func TestCheck_OtherAutomaton(t *testing.T) {
	args := append([]string{"check", "0110"}, base("text", "none")...)
	args = append(args, "--automaton", "even-ones")

	out, err := execute(t, "", args...)
	require.NoError(t, err)
	assert.Contains(t, out, "[Pass] accepted in q0")
}

func TestTable_Markdown(t *testing.T) {
	out, err := execute(t, "", append([]string{"table"}, base("text", "none")...)...)
	require.NoError(t, err)

	assert.Contains(t, out, "| → q1 | q2 | q3 | - |")
	assert.Contains(t, out, "| *q6 | q4 | q5 | q6 |")
}

func TestTable_YAML(t *testing.T) {
	out, err := execute(t, "", append([]string{"table"}, base("yaml", "none")...)...)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "ab1", decoded["name"])
	assert.Equal(t, 1, decoded["start"])
}

func TestGraph(t *testing.T) {
	out, err := execute(t, "", append([]string{"graph"}, base("text", "none")...)...)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "graph LR"))
	assert.NotContains(t, out, "class q")

	out, err = execute(t, "", append([]string{"graph", "--input", "ab"}, base("text", "none")...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "class q5 current;")
}

func TestRuns_NoStore(t *testing.T) {
	_, err := execute(t, "", append([]string{"runs", "ls"}, base("text", "none")...)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no run store configured")
}

func TestRuns_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	store := func(output string, extra ...string) []string {
		return append(base(output, "redis", "--redis-addr", mr.Addr()), extra...)
	}

	out, err := execute(t, "", append([]string{"check", "ab"}, store("json")...)...)
	require.NoError(t, err)
	var run domain.Run
	require.NoError(t, json.Unmarshal([]byte(out), &run))

	out, err = execute(t, "", append([]string{"runs", "ls"}, store("text")...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "- "+run.ID)

	out, err = execute(t, "", append([]string{"runs", "show", run.ID}, store("text")...)...)
	require.NoError(t, err)
	assert.Contains(t, out, `"ab"`)
	assert.Contains(t, out, "[Pass] accepted in q5")

	out, err = execute(t, "", append([]string{"runs", "rm", run.ID}, store("text")...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed run '"+run.ID+"'")

	_, err = execute(t, "", append([]string{"runs", "show", run.ID}, store("text")...)...)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
}

func TestColorProfile(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, termenv.Ascii, colorProfile("never", &buf))
	assert.Equal(t, termenv.ANSI256, colorProfile("always", &buf))
	assert.Equal(t, termenv.Ascii, colorProfile("auto", &buf))
}

func TestOpenStore_Redact(t *testing.T) {
	c := config.Default()
	c.Store = config.StoreMemory
	c.Redact = `[0-9]`

	store, closeStore, err := openStore(context.Background(), c)
	require.NoError(t, err)
	defer closeStore()

	require.NoError(t, store.Save(context.Background(), &domain.Run{ID: "r", Input: "ab11"}))
	run, err := store.Load(context.Background(), "r")
	require.NoError(t, err)
	assert.Equal(t, "ab**", run.Input)
}

func TestOpenStore_EncryptedRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	c := config.Default()
	c.Store = config.StoreRedis
	c.Redis.Addr = mr.Addr()
	c.Redact = `[0-9]`
	c.Encryption.Key = base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{9}, 32))

	store, closeStore, err := openStore(context.Background(), c)
	require.NoError(t, err)
	defer closeStore()

	require.NoError(t, store.Save(context.Background(), &domain.Run{ID: "r", Input: "secret1"}))

	raw, err := mr.Get("delta:run:r")
	require.NoError(t, err)
	assert.NotContains(t, raw, "secret")
	assert.Contains(t, raw, `"sealed":`)

	run, err := store.Load(context.Background(), "r")
	require.NoError(t, err)
	assert.Equal(t, "secret*", run.Input)
}

func TestOpenStore_None(t *testing.T) {
	store, closeStore, err := openStore(context.Background(), config.Default())
	require.NoError(t, err)
	assert.Nil(t, store)
	assert.NoError(t, closeStore())
}

func TestCheck_InputTooLarge(t *testing.T) {
	t.Setenv("DELTA_MAX_INPUT_SIZE", "3")

	_, err := execute(t, "", append([]string{"check", "abab"}, base("text", "none")...)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum allowed size")
}

func TestMCP_UnknownTransport(t *testing.T) {
	_, err := execute(t, "", append([]string{"mcp", "--transport", "carrier-pigeon"}, base("text", "none")...)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown transport "carrier-pigeon"`)
}

// Runs last: --trace stays set for any later execute call.
func TestCheck_Trace(t *testing.T) {
	out, err := execute(t, "", append([]string{"check", "ab", "--trace"}, base("text", "none")...)...)
	require.NoError(t, err)

	assert.Contains(t, out, "[Pass] accepted in q5")
	assert.Contains(t, out, `"Name": "delta.check"`)
	assert.Contains(t, out, "delta.verdict")
}
