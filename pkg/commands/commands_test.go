package commands

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/taskflow/pkg/assistant"
	"tableflip.dev/taskflow/pkg/record"
)

func setupEnv(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("TASKFLOW_CONFIG_PATH", dir)
	t.Setenv("TASKFLOW_PATH", filepath.Join(dir, "db"))
	t.Setenv("TASKFLOW_BACKEND", "disk")
	t.Setenv("TASKFLOW_USER", "")
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	cmd := New()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute(), "taskflow %s: %s", strings.Join(args, " "), errOut.String())
	return out.String()
}

func TestTodoAddAndList(t *testing.T) {
	setupEnv(t)

	var added record.Todo
	require.NoError(t, json.Unmarshal([]byte(run(t, "todo", "add", "buy", "milk", "--json")), &added))
	assert.Equal(t, "buy milk", added.Text)
	assert.NotEmpty(t, added.ID)

	var listed []record.Todo
	require.NoError(t, json.Unmarshal([]byte(run(t, "todo", "list", "--json")), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, added.ID, listed[0].ID)

	var toggled record.Todo
	require.NoError(t, json.Unmarshal([]byte(run(t, "todo", "done", added.ID, "--json")), &toggled))
	assert.True(t, toggled.Done)
}

func TestAskHelp(t *testing.T) {
	setupEnv(t)
	out := run(t, "ask", "help")
	assert.Equal(t, assistant.HelpText()+"\n", out)
}

func TestAskNavigationPrintsCommand(t *testing.T) {
	setupEnv(t)
	out := run(t, "ask", "open", "notes")
	assert.Contains(t, out, "(see: taskflow note list)")
}

func TestUsersScopeData(t *testing.T) {
	setupEnv(t)

	run(t, "todo", "add", "guest", "chore")
	run(t, "user", "register", "ana", "--password", "hunter2")

	var who account
	require.NoError(t, json.Unmarshal([]byte(run(t, "user", "whoami", "--json")), &who))
	assert.Equal(t, "ana", who.Username)
	assert.NotEmpty(t, who.Identity)

	var listed []record.Todo
	out := run(t, "todo", "list", "--json")
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	assert.Empty(t, listed)

	run(t, "user", "logout")
	require.NoError(t, json.Unmarshal([]byte(run(t, "todo", "list", "--json")), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "guest chore", listed[0].Text)
}

func TestChatPipedInput(t *testing.T) {
	setupEnv(t)
	cmd := New()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader("add todo water plants\n:date 2026-10-20\n:quit\n"))
	cmd.SetArgs([]string{"chat"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "water plants")
	assert.Contains(t, out.String(), "Reminders without a date now go to 2026-10-20.")
}

func TestInfoListsBuckets(t *testing.T) {
	setupEnv(t)
	run(t, "todo", "add", "anything")
	out := run(t, "info")
	assert.Contains(t, out, "Config.store: disk")
	assert.Contains(t, out, "Buckets:")
	assert.NotContains(t, out, "no buckets")
}

func TestExportPrint(t *testing.T) {
	setupEnv(t)
	out := run(t, "export", "--print", "--sections", "todos")
	assert.Contains(t, out, "Total todos: 0")
	assert.NotContains(t, out, "Reminders")
}
