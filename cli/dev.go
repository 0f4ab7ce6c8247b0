package cli

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/juanfont/create-starter-kit/config"
	"github.com/juanfont/create-starter-kit/pkgmanager"
	"github.com/juanfont/create-starter-kit/types"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var devCmd = &cobra.Command{
	Use:   "dev [DIRECTORY]",
	Short: "Start the project's development server",
	Long: `Runs the "dev" script of the project in DIRECTORY (default: current
directory) with the detected package manager.

Ctrl+C stops the development server and every process it started.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDev,
}

func runDev(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	if !isNodeProject(dir) {
		return fmt.Errorf("not a node project (missing %s)", filepath.Join(dir, "package.json"))
	}

	pm, err := config.Get().ResolvePackageManager()
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Starting development server in %s...\n\n", dir)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Handle Ctrl+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- startDevServer(ctx, dir, pm)
	}()

	select {
	case sig := <-sigChan:
		fmt.Fprintf(cmd.OutOrStdout(), "\nReceived %s, shutting down...\n", sig)
		cancel()
		<-errChan
	case err := <-errChan:
		if err != nil {
			return err
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Development server stopped")
	return nil
}

func isNodeProject(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, "package.json"))
	return err == nil
}

func startDevServer(ctx context.Context, dir string, pm pkgmanager.Identity) error {
	argv := pm.RunScriptCommand("dev")
	command := strings.Join(argv, " ")
	log.Debug().Str("command", command).Str("dir", dir).Msg("Starting dev server")

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	// Set platform-specific process attributes
	setProcAttr(cmd)

	if err := cmd.Start(); err != nil {
		return types.NewStepError(1, "Starting development server", command, 1, err)
	}

	// Wait for context cancellation or process exit
	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case <-ctx.Done():
		killProcess(cmd)
		<-done
		return nil
	case err := <-done:
		if err != nil {
			code := 1
			if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() > 0 {
				code = exitErr.ExitCode()
			}
			return types.NewStepError(1, "Starting development server", command, code, err)
		}
		return nil
	}
}
