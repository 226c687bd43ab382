package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/xdg/llvmbuilder/internal/clog"
	"github.com/xdg/llvmbuilder/internal/pathutil"
	"github.com/xdg/llvmbuilder/internal/prompt"
	"github.com/xdg/llvmbuilder/internal/runner"
	"github.com/xdg/llvmbuilder/internal/settings"
	"github.com/xdg/llvmbuilder/internal/term"
)

// exitCancelled is the exit status of a build stopped by Ctrl-C.
const exitCancelled = 130

var (
	buildYes     bool
	buildTimeout time.Duration
)

// Replaced in tests.
var (
	confirmPrompter prompt.YesNoPrompter = prompt.NewStdinYesNoPrompter(os.Stdin, os.Stdout)
	isInteractive                        = prompt.Interactive
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Run the build script",
	Long: `Render the full build script and run it, streaming its output.

You are asked to confirm before anything runs unless --yes is given, dryRun
is enabled (only the configure step runs) or botMode is enabled. Press
Ctrl-C to cancel: the build's process group is sent SIGTERM and, if it has
not exited after runner.cancel_grace, SIGKILL.

The raw output of every build is also written to a run log under
$XDG_STATE_HOME/llvmbuilder/runs/. The exit status is the build script's
exit status, 130 after a cancel, or 1 for any other failure.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().BoolVarP(&buildYes, "yes", "y", false, "do not ask for confirmation")
	buildCmd.Flags().DurationVar(&buildTimeout, "timeout", 0, "stop the build after this long (0 for no limit)")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	st, err := resolveSettings()
	if err != nil {
		return err
	}
	snap := st.Snapshot()

	if !buildYes && !snap.DryRun && !snap.BotMode {
		ok, err := confirmBuild(snap)
		if err != nil {
			return err
		}
		if !ok {
			term.Println("Build not started.")
			return nil
		}
	}

	if appConfig.RememberDefaults() {
		rememberDefaults(st)
	}

	runLog := openRunLog()
	if runLog != nil {
		defer runLog.Close()
	}

	r := runner.New(buildListener(runLog), runnerOptions())
	defer r.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if buildTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, buildTimeout)
		defer cancel()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if err := r.LaunchSettings(ctx, snap); err != nil {
		return fmt.Errorf("failed to start build: %w", err)
	}

	done := make(chan struct{})
	go func() {
		select {
		case sig := <-sigChan:
			clog.Info("received %s, cancelling build", sig)
			r.Cancel()
		case <-done:
		}
	}()

	res := r.Wait()
	close(done)

	if code := exitCodeFor(res); code != 0 {
		return NewExitCodeError(code)
	}
	return nil
}

// confirmBuild shows what is about to run and asks for confirmation.
func confirmBuild(s settings.Settings) (bool, error) {
	term.Heading("About to build LLVM")
	term.Printf("  source:   %s\n", pathutil.Collapse(s.LLVMDir))
	term.Printf("  build:    %s\n", pathutil.Collapse(s.BuildDir))
	if s.CleanBuildDir {
		term.Printf("            (existing contents will be deleted)\n")
	}
	if s.DoInstall {
		term.Printf("  install:  %s\n", pathutil.Collapse(s.InstallPath))
	}
	term.Printf("  projects: %s\n", s.Projects)
	if s.Runtimes != "" {
		term.Printf("  runtimes: %s\n", s.Runtimes)
	}

	ok, err := prompt.Confirm(confirmPrompter, isInteractive(), "Start the build?", false)
	if err != nil {
		if errors.Is(err, prompt.ErrNotInteractive) {
			return false, err
		}
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	return ok, nil
}

func rememberDefaults(st *settings.Settings) {
	fd, err := openFieldDefaults()
	if err == nil {
		err = fd.Remember(st)
	}
	if err != nil {
		term.Warn("could not remember field defaults: %v", err)
		return
	}
	clog.Debug("remembered field defaults in %s", fd.Path())
}

// openRunLog opens a fresh run log and prunes old ones. Failures only
// disable the run log.
func openRunLog() *os.File {
	f, err := clog.OpenRunLog(time.Now())
	if err != nil {
		term.Warn("run log disabled: %v", err)
		return nil
	}
	if err := clog.PruneRunLogs(appConfig.Log.KeepRuns); err != nil {
		clog.Warn("failed to prune run logs: %v", err)
	}
	clog.Info("run log: %s", f.Name())
	return f
}

// buildListener streams output to the terminal and to runLog, which may be
// nil. The runner's own final status line is part of the output; the
// finished notification adds a colored verdict.
func buildListener(runLog io.Writer) runner.Listener {
	return runner.ListenerFuncs{
		OnOutput: func(chunk string) {
			term.Print(chunk)
			if runLog != nil {
				_, _ = io.WriteString(runLog, chunk)
			}
		},
		OnFinished: func(success bool, message string) {
			if success {
				term.Success("Build finished.")
			} else {
				term.Failure("Build failed: %s", message)
			}
		},
	}
}

func runnerOptions() runner.Options {
	return runner.Options{
		TempDir:       appConfig.Runner.TempDir,
		Shell:         appConfig.Runner.Shell,
		CancelGrace:   appConfig.CancelGrace(),
		TeardownGrace: appConfig.TeardownGrace(),
		Env:           appConfig.Runner.Env,
		Renderer:      newRenderer(),
	}
}

// exitCodeFor maps a run result to the process exit status.
func exitCodeFor(res runner.Result) int {
	switch {
	case res.Success():
		return 0
	case res.State == runner.StateCancelled:
		return exitCancelled
	case res.Kind == runner.FailureExitCode && res.ExitCode > 0:
		return res.ExitCode
	default:
		return 1
	}
}
