package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
)

// execRoot runs a fresh command tree with HOME and LINEAGE_HOME pointed at a
// temporary directory. It returns stdout; logs go to stderr.
func execRoot(t *testing.T, args []string) (string, error) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("LINEAGE_HOME", home)
	t.Setenv("LINEAGE_COUCH_URL", "")

	root := newRootCommand()
	registerSubcommands(root)

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	// Reduce log noise to capture clean command output for JSON parsing
	root.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := root.Execute()
	return stdout.String(), err
}

func loggerFlags(level string, jsonLogs, noColor bool) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Flags().String("log-level", level, "")
	cmd.Flags().Bool("json", jsonLogs, "")
	cmd.Flags().Bool("no-color", noColor, "")
	return cmd
}

func TestInitializeLogger(t *testing.T) {
	// None of these should panic or exit.
	initializeLogger(loggerFlags("info", false, false))
	initializeLogger(loggerFlags("debug", false, true))
	initializeLogger(loggerFlags("invalid", false, false))
	initializeLogger(loggerFlags("warn", true, false))
}

func TestRootCommandHasVersion(t *testing.T) {
	if newRootCommand().Version == "" {
		t.Error("root command version should not be empty")
	}
}

func TestRegisterSubcommands(t *testing.T) {
	root := newRootCommand()
	registerSubcommands(root)

	for _, name := range []string{"version", "move-contacts"} {
		found, _, err := root.Find([]string{name})
		if err != nil || found.Name() != name {
			t.Errorf("subcommand %q not registered (err=%v)", name, err)
		}
	}
}

func TestVersion_JSON(t *testing.T) {
	out, err := execRoot(t, []string{"version", "--json"})
	if err != nil {
		t.Fatalf("version --json failed: %v\n%s", err, out)
	}
	var v map[string]any
	if json.Unmarshal([]byte(out), &v) != nil {
		t.Fatalf("version output is not valid JSON: %s", out)
	}
	for _, key := range []string{"version", "goVersion", "platform"} {
		if _, ok := v[key].(string); !ok {
			t.Errorf("expected %s field in JSON", key)
		}
	}
}

func TestVersion_Text(t *testing.T) {
	out, err := execRoot(t, []string{"version"})
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !bytes.HasPrefix([]byte(out), []byte("lineage ")) {
		t.Errorf("unexpected version output: %q", out)
	}
}
