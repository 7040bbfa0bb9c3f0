package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pilosa/relkit/test"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigLayers(t *testing.T) {
	conf := filepath.Join(t.TempDir(), "relkit.toml")
	require.NoError(t, os.WriteFile(conf, []byte(`
dsn = "sqlite://from-config.db"
on-row-error = "skip"
drop-columns = ["a", "b"]
`), 0600))
	t.Setenv("RELKIT_BATCH_SIZE", "7")
	t.Setenv("RELKIT_ON_ROW_ERROR", "fail")

	var (
		dsn, policy, config string
		batch               int
		drop                []string
	)
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.StringVar(&config, "config", "", "")
	fs.StringVar(&dsn, "dsn", "", "")
	fs.StringVar(&policy, "on-row-error", "abort", "")
	fs.IntVar(&batch, "batch-size", 1000, "")
	fs.StringSliceVar(&drop, "drop-columns", nil, "")
	require.NoError(t, fs.Parse([]string{"--config", conf, "--dsn", "sqlite://from-flag.db"}))

	v, err := newConfig(fs, EnvPrefix)
	require.NoError(t, err)
	require.NoError(t, applyConfig(v, fs))
	assert.Equal(t, "sqlite://from-flag.db", dsn, "flags win over config")
	assert.Equal(t, 7, batch, "env applies when no flag is given")
	assert.Equal(t, "fail", policy, "env wins over config")
	assert.Equal(t, []string{"a", "b"}, drop)
}

func TestConfigBadFile(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("config", "", "")
	require.NoError(t, fs.Parse([]string{"--config", filepath.Join(t.TempDir(), "missing.toml")}))
	_, err := newConfig(fs, EnvPrefix)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestConfigBadValue(t *testing.T) {
	t.Setenv("RELKIT_BATCH_SIZE", "lots")
	var batch int
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.IntVar(&batch, "batch-size", 1000, "")
	require.NoError(t, fs.Parse(nil))
	v, err := newConfig(fs, EnvPrefix)
	require.NoError(t, err)
	err = applyConfig(v, fs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--batch-size")
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rc := NewRootCommand(strings.NewReader(""), &stdout, &stderr)
	rc.SetArgs(args)
	err := rc.Execute()
	return stdout.String(), stderr.String(), err
}

func TestSubcommands(t *testing.T) {
	rc := NewRootCommand(strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})
	var names []string
	for _, c := range rc.Commands() {
		names = append(names, c.Name())
	}
	for _, exp := range []string{"all", "ecommerce", "movies", "summary", "supermarket", "userbehavior"} {
		assert.Contains(t, names, exp)
	}
}

// Every subcommand must build its flags alongside the root's persistent
// flags and get as far as running.
func TestEverySubcommandRuns(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.csv")
	dsn := test.SQLitePath(t, "any.db")
	tests := []struct {
		args   []string
		expErr string
	}{
		{args: []string{"ecommerce", "--path", missing, "--dsn", dsn}, expErr: "opening source"},
		{args: []string{"movies", "--path", missing, "--dsn", dsn}, expErr: "opening source"},
		{args: []string{"supermarket", "--path", missing, "--dsn", dsn}, expErr: "opening source"},
		{args: []string{"userbehavior", "--path", missing, "--dsn", dsn}, expErr: "opening source"},
		{args: []string{"all", "--dir", t.TempDir(), "--store-dir", t.TempDir(), "--only", "movies"}, expErr: "movies"},
		{args: []string{"summary", "--dataset", "movies", "--dsn", dsn}, expErr: "counting types"},
	}
	for _, tst := range tests {
		t.Run(tst.args[0], func(t *testing.T) {
			_, _, err := execute(t, "--help")
			require.NoError(t, err)
			_, _, err = execute(t, tst.args[0], "--help")
			require.NoError(t, err)

			_, _, err = execute(t, tst.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tst.expErr)
		})
	}
}

func TestLoadAndSummarize(t *testing.T) {
	path := test.WriteCSV(t, "users.csv",
		"User ID,Device Model,Operating System,App Usage Time (min/day),Screen On Time (hours/day),Battery Drain (mAh/day),Number of Apps Installed,Data Usage (MB/day),Age,Gender,User Behavior Class",
		"1,Google Pixel 5,Android,393,6.4,1872,67,1122,40,Male,4",
		"2,iPhone 12,iOS,187,4.3,1367,58,988,31,Female,3",
	)
	dsn := test.SQLitePath(t, "users.db")
	metrics := filepath.Join(t.TempDir(), "relkit.prom")

	stdout, stderr, err := execute(t, "userbehavior", "--path", path, "--dsn", dsn, "--metrics-file", metrics)
	require.NoError(t, err, stderr)
	assert.Contains(t, stdout, "userbehavior: read 2 rows, skipped 0, inserted devices=2 os=2 user_behaviors=2 users=2")
	assert.Contains(t, stderr, "committed")
	_, err = os.Stat(metrics)
	assert.NoError(t, err)

	stdout, _, err = execute(t, "summary", "--dataset", "userbehavior", "--dsn", dsn)
	require.NoError(t, err)
	assert.Contains(t, stdout, "user_behaviors")
}

func TestLoadFailure(t *testing.T) {
	path := test.WriteCSV(t, "users.csv", "User ID,Age", "1,40")
	_, _, err := execute(t, "userbehavior", "--path", path, "--dsn", test.SQLitePath(t, "users.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required column")
}
