package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testOptions isolates a command from the process environment.
func testOptions(format string, env map[string]string) *RootOptions {
	return &RootOptions{
		Format: format,
		Env: func(k string) (string, bool) {
			v, ok := env[k]
			return v, ok
		},
	}
}

// execute runs cmd with args and returns stdout and stderr.
func execute(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := NewRootCommand()

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"run", "test", "serve", "inspect", "config", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestRootCommand_Flags(t *testing.T) {
	cmd := NewRootCommand()

	for _, name := range []string{"verbose", "format", "config"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
	assert.Equal(t, "text", cmd.PersistentFlags().Lookup("format").DefValue)
	assert.Equal(t, "v", cmd.PersistentFlags().Lookup("verbose").Shorthand)
}

func TestRootCommand_InvalidFormat(t *testing.T) {
	cmd := NewRootCommand()

	_, _, err := execute(t, cmd, "", "--format", "xml", "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestRootCommand_Version(t *testing.T) {
	cmd := NewRootCommand()

	out, _, err := execute(t, cmd, "", "--format", "json", "version")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	data := resp.Data.(map[string]any)
	assert.Equal(t, Version, data["version"])
	assert.True(t, strings.HasPrefix(data["go"].(string), "go"))
}

func TestVersionCommand_Text(t *testing.T) {
	out, _, err := execute(t, NewVersionCommand(testOptions("text", nil)), "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "nars "+Version+" (go"), out)
}

func TestConfigCommand_JSON(t *testing.T) {
	opts := testOptions("json", map[string]string{"NARS_CONCEPTS": "500"})

	out, _, err := execute(t, NewConfigCommand(opts), "")
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Bag struct {
				Concepts int `json:"concepts"`
			} `json:"bag"`
			Store struct {
				Path string `json:"path"`
			} `json:"store"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 500, resp.Data.Bag.Concepts)
	assert.Equal(t, "nars.db", resp.Data.Store.Path)
}

func TestConfigCommand_Text(t *testing.T) {
	out, _, err := execute(t, NewConfigCommand(testOptions("text", nil)), "")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Contains(t, decoded, "bag")
	assert.Contains(t, decoded, "inference")
}

func TestConfigCommand_InvalidEnv(t *testing.T) {
	opts := testOptions("text", map[string]string{"NARS_RELIANCE": "2"})

	_, _, err := execute(t, NewConfigCommand(opts), "")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid configuration")
}
