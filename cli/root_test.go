package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/juanfont/create-starter-kit/config"
	"github.com/juanfont/create-starter-kit/frameworks"
	"github.com/juanfont/create-starter-kit/pkgmanager"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetCLI restores flag values and viper bindings left by a previous run.
func resetCLI(t *testing.T) {
	t.Helper()

	viper.Reset()
	rootFlags.template = ""
	rootFlags.overwrite = false
	rootFlags.configFile = ""
	for name, value := range map[string]string{"log-level": "info", "log-format": config.TextLogFormat} {
		f := rootCmd.PersistentFlags().Lookup(name)
		require.NoError(t, f.Value.Set(value))
		f.Changed = false
	}
	bindFlags()
}

func runCLI(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	resetCLI(t)
	t.Cleanup(func() { resetCLI(t) })

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	t.Cleanup(func() { rootCmd.SetOut(nil) })

	code := execute(context.Background(), args, &stderr)
	return stdout.String(), stderr.String(), code
}

func TestVersionCommand(t *testing.T) {
	out, _, code := runCLI(t, "version")
	assert.Equal(t, 0, code)
	assert.Equal(t, "create-starter-kit version "+Version+" (commit: "+Commit+")\n", out)
}

func TestListCommand(t *testing.T) {
	t.Setenv(pkgmanager.UserAgentEnv, "bun/1.1.0 npm/? node/v20.11.0 linux x64")

	out, _, code := runCLI(t, "list")
	require.Equal(t, 0, code)

	for _, name := range frameworks.Default().Names() {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "bun x create-vue@latest")
}

func TestUsageErrorsExitWithOne(t *testing.T) {
	_, stderr, code := runCLI(t, "list", "extra")
	assert.Equal(t, 1, code)
	assert.True(t, strings.HasPrefix(stderr, "Error: "), stderr)
}

func TestPrintTemplates(t *testing.T) {
	registry, err := frameworks.Load([]byte(testCatalogue))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, printTemplates(&buf, registry, pkgmanager.Default))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "React", lines[0])
	assert.Contains(t, lines[1], "react-steps")
	assert.Contains(t, lines[1], "Multi-step setup: 2 commands")
	assert.Equal(t, "Vanilla", lines[2])
	assert.Contains(t, lines[4], "npm create vanilla@latest")
}

func TestTemplateListInHelp(t *testing.T) {
	help := templateList()
	assert.Contains(t, help, "Next.js")
	assert.Contains(t, help, "nextjs-csr")
	assert.Contains(t, help, "vanilla-ts")
}

func TestDevRequiresPackageJSON(t *testing.T) {
	_, stderr, code := runCLI(t, "dev", t.TempDir())
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "not a node project")
}

func TestFlagsDoNotLeakBetweenRuns(t *testing.T) {
	_, _, code := runCLI(t, "version", "--log-level", "debug", "--log-format", "json")
	require.Equal(t, 0, code)
	assert.Equal(t, "debug", viper.GetString("logging.level"))
	assert.Equal(t, config.JSONLogFormat, config.GetLogConfig().Format)

	_, _, code = runCLI(t, "version")
	require.Equal(t, 0, code)
	assert.Equal(t, "info", viper.GetString("logging.level"))
	assert.Equal(t, config.TextLogFormat, config.GetLogConfig().Format)
}
