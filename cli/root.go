// Package cli provides the create-starter-kit CLI commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/juanfont/create-starter-kit/config"
	"github.com/juanfont/create-starter-kit/frameworks"
	"github.com/juanfont/create-starter-kit/scaffold"
	"github.com/juanfont/create-starter-kit/steps"
	"github.com/juanfont/create-starter-kit/templates"
	"github.com/juanfont/create-starter-kit/types"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootFlags struct {
	template   string
	overwrite  bool
	configFile string
}

var rootCmd = &cobra.Command{
	Use:   "create-starter-kit [DIRECTORY]",
	Short: "create-starter-kit - scaffold front-end projects from curated starter kits",
	Long: `create-starter-kit creates a new front-end project in DIRECTORY.

Projects are created either by running the framework's own generator
followed by a set of curated configuration files, or by copying a
bundled template.

Available templates:
` + templateList() + `
Example:
  create-starter-kit my-app -t nextjs-csr
  npm create starter-kit@latest my-app`,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              runCreate,
}

func init() {
	rootCmd.Flags().StringVarP(&rootFlags.template, "template", "t", "", "Template to use (see 'create-starter-kit list')")
	rootCmd.Flags().BoolVar(&rootFlags.overwrite, "overwrite", false, "Remove existing files in DIRECTORY without asking")

	rootCmd.PersistentFlags().StringVar(&rootFlags.configFile, "config", "", "Config file (default searches /etc/starter-kit, $HOME/.starter-kit and .)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", config.TextLogFormat, "Log format (text, json)")

	bindFlags()

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(devCmd)
	rootCmd.AddCommand(versionCmd)
}

// bindFlags lets command-line flags override config file and env values.
func bindFlags() {
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	return execute(context.Background(), os.Args[1:], os.Stderr)
}

func execute(ctx context.Context, args []string, stderr io.Writer) int {
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	switch {
	case err == nil:
	case errors.Is(err, types.ErrCancelled):
		fmt.Fprintln(stderr, "✗ Operation cancelled")
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}

	return types.ExitCode(err)
}

func setup(cmd *cobra.Command, _ []string) error {
	if err := config.Load(rootFlags.configFile, nil); err != nil {
		return err
	}
	config.SetupLogging(config.GetLogConfig(), os.Stderr)
	return nil
}

func templateList() string {
	var b strings.Builder
	for _, f := range frameworks.Default().Frameworks() {
		fmt.Fprintf(&b, "  %s\n", f.Label())
		for _, v := range f.Variants {
			fmt.Fprintf(&b, "    %s\n", v.Name)
		}
	}
	return b.String()
}

// templateSource returns the on-disk template root when configured,
// otherwise the templates embedded in the binary.
func templateSource(cfg *config.Config) fs.FS {
	if cfg.TemplatesDir != "" {
		log.Debug().Str("dir", cfg.TemplatesDir).Msg("Using templates from disk")
		return os.DirFS(cfg.TemplatesDir)
	}
	return templates.Bundled()
}

func runCreate(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	pm, err := cfg.ResolvePackageManager()
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	osFs := afero.NewOsFs()
	c := &creator{
		registry:         frameworks.Default(),
		prompter:         newPrompter(),
		fs:               osFs,
		generator:        scaffold.NewGenerator(templateSource(cfg), osFs, steps.NewRunner(nil), pm),
		pm:               pm,
		cwd:              cwd,
		defaultTargetDir: cfg.DefaultTargetDir,
		out:              cmd.OutOrStdout(),
	}

	var targetDir string
	if len(args) > 0 {
		targetDir = args[0]
	}

	return c.run(cmd.Context(), createOptions{
		targetDir: targetDir,
		template:  rootFlags.template,
		overwrite: rootFlags.overwrite,
	})
}
