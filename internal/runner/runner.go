// Package runner executes a rendered build script as a single child process
// and streams its combined output to a Listener.
//
// A Runner owns at most one process and one temporary script file at a time.
// Launch is rejected while a run is in progress; Cancel and Close terminate
// the whole process group with a TERM, a bounded wait, then a KILL.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"
	"unicode/utf8"

	"golang.org/x/sys/unix"

	"github.com/xdg/llvmbuilder/internal/clog"
	"github.com/xdg/llvmbuilder/internal/render"
	"github.com/xdg/llvmbuilder/internal/settings"
)

// Status lines written to the output stream.
const (
	msgAlreadyRunning = "Error: A build process is already running.\n"
	msgScriptFile     = "Error: Failed to create temporary script file.\n"
	msgChmod          = "Error: Failed to make script executable.\n"
	msgStarting       = "Starting build process...\n"
	msgCancelling     = "Cancelling build process...\n"
	msgKilling        = "Process did not terminate gracefully, killing...\n"
)

// Default option values.
const (
	DefaultScriptPattern = "llvmbuilder_*.sh"
	DefaultCancelGrace   = 5 * time.Second
	DefaultTeardownGrace = 3 * time.Second
	DefaultDrainTimeout  = 2 * time.Second
)

// chmod is replaced in tests to exercise the permission failure path.
var chmod = os.Chmod

// Options configures a Runner.
type Options struct {
	// TempDir is where script files are created. Empty means os.TempDir().
	TempDir string
	// ScriptPattern is the os.CreateTemp pattern for script files.
	ScriptPattern string
	// Shell, when set, runs the script as "Shell <script>" instead of
	// executing the file directly.
	Shell string
	// CancelGrace bounds the wait between TERM and KILL in Cancel.
	CancelGrace time.Duration
	// TeardownGrace bounds the wait between TERM and KILL in Close.
	TeardownGrace time.Duration
	// DrainTimeout bounds how long output is read after the process exits.
	// Background jobs that inherited the output pipe are cut off after it.
	DrainTimeout time.Duration
	// Env is added to the inherited environment.
	Env map[string]string
	// Renderer renders scripts for LaunchSettings. Nil uses render.DefaultOptions.
	Renderer *render.Renderer
}

// DefaultOptions returns the reference grace periods and script pattern.
func DefaultOptions() Options {
	return Options{
		ScriptPattern: DefaultScriptPattern,
		CancelGrace:   DefaultCancelGrace,
		TeardownGrace: DefaultTeardownGrace,
		DrainTimeout:  DefaultDrainTimeout,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.ScriptPattern == "" {
		o.ScriptPattern = def.ScriptPattern
	}
	if o.CancelGrace <= 0 {
		o.CancelGrace = def.CancelGrace
	}
	if o.TeardownGrace <= 0 {
		o.TeardownGrace = def.TeardownGrace
	}
	if o.DrainTimeout <= 0 {
		o.DrainTimeout = def.DrainTimeout
	}
	if o.Renderer == nil {
		o.Renderer = render.New(render.DefaultOptions())
	}
	return o
}

// run tracks a single launch attempt.
type run struct {
	pid       int
	started   time.Time
	exited    chan struct{} // closed when the process has been reaped
	done      chan struct{} // closed after Finished has been delivered
	result    Result        // written before done is closed
	cancelled bool          // guarded by Runner.mu
	timedOut  bool          // guarded by Runner.mu
}

// Runner owns the lifecycle of one external build process at a time.
type Runner struct {
	opts     Options
	listener Listener

	mu         sync.Mutex
	state      State
	closed     bool
	cur        *run // non-nil while Running
	last       *run
	scriptPath string
	output     strings.Builder

	notifyMu sync.Mutex
}

// New creates an idle Runner that reports to listener. A nil listener
// discards notifications. Zero-valued options fall back to DefaultOptions.
func New(listener Listener, opts Options) *Runner {
	return &Runner{
		opts:     opts.withDefaults(),
		listener: listener,
	}
}

// Options returns the runner's options after defaulting.
func (r *Runner) Options() Options {
	return r.opts
}

// State returns the current lifecycle state.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// IsRunning reports whether a process is currently running.
func (r *Runner) IsRunning() bool {
	return r.State() == StateRunning
}

// Output returns everything relayed to the listener during the last run.
func (r *Runner) Output() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.output.String()
}

// ScriptPath returns the temporary script currently owned by the runner, or
// "" if there is none.
func (r *Runner) ScriptPath() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scriptPath
}

// Wait blocks until the last launched run has finished and returns its
// result. It returns the zero Result if nothing was ever launched.
func (r *Runner) Wait() Result {
	r.mu.Lock()
	last := r.last
	r.mu.Unlock()
	if last == nil {
		return Result{}
	}
	<-last.done
	return last.result
}

// LaunchSettings renders the full script for s and launches it with the
// build directory as working directory. Conflict resolution is the
// caller's job.
func (r *Runner) LaunchSettings(ctx context.Context, s settings.Settings) error {
	return r.Launch(ctx, r.opts.Renderer.FullScript(s), s.BuildDir)
}

// Launch writes script to a fresh temporary file, makes it executable and
// starts it in workDir, which is created if absent. It returns once the
// process is running; completion is reported through the Listener.
//
// While a run is in progress Launch returns ErrAlreadyRunning and notifies
// the rejection as an output chunk without touching the running process.
// Failures before the process exists are notified as a failed finish and
// returned. Cancelling ctx terminates the run like Cancel; a ctx deadline
// is reported as a timeout.
func (r *Runner) Launch(ctx context.Context, script, workDir string) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	if r.state != StateIdle {
		r.mu.Unlock()
		clog.Info("launch rejected: runner is busy")
		r.notify(func(l Listener) { l.Output(msgAlreadyRunning) })
		return ErrAlreadyRunning
	}
	r.state = StateLaunching
	prev := r.scriptPath
	r.scriptPath = ""
	r.output.Reset()
	cur := &run{
		exited: make(chan struct{}),
		done:   make(chan struct{}),
	}
	r.last = cur
	r.mu.Unlock()

	if prev != "" {
		removeScript(prev)
	}

	path, err := r.writeScript(script)
	if err != nil {
		r.abort(cur, msgScriptFile, FailureFailedToStart)
		return fmt.Errorf("%w: %v", ErrScriptFile, err)
	}

	if err := chmod(path, 0o700); err != nil {
		r.abort(cur, msgChmod, FailureFailedToStart)
		return &PermissionError{Path: path, Err: err}
	}

	if workDir != "" {
		if err := os.MkdirAll(workDir, 0o755); err != nil {
			r.abort(cur, "Error: Failed to create build directory "+workDir+"\n", FailureFailedToStart)
			return fmt.Errorf("failed to create build directory: %w", err)
		}
	}

	pr, pw, err := os.Pipe()
	if err != nil {
		r.abort(cur, FailureFailedToStart.Message()+"\n", FailureFailedToStart)
		return &StartError{Err: err}
	}

	cmd := r.command(path, workDir)
	cmd.Stdout = pw
	cmd.Stderr = pw

	clog.Debug("starting %s in %s", path, workDir)
	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		r.abort(cur, FailureFailedToStart.Message()+"\n", FailureFailedToStart)
		return &StartError{Err: err}
	}
	// The child holds its own copy of the write end.
	pw.Close()

	cur.pid = cmd.Process.Pid
	cur.started = time.Now()

	r.mu.Lock()
	r.state = StateRunning
	r.cur = cur
	r.mu.Unlock()

	clog.Info("build process started (pid %d)", cur.pid)
	r.notify(func(l Listener) { l.Started() })
	r.emitOutput(msgStarting)

	readDone := make(chan error, 1)
	go func() {
		readDone <- r.relay(pr)
	}()
	go r.wait(cmd, cur, pr, readDone)
	go r.watch(ctx, cur)

	return nil
}

// Cancel terminates the running process: TERM to its process group, a wait
// of up to CancelGrace, then KILL. It returns after the finished
// notification has been delivered. Cancel is a no-op unless a process is
// running.
func (r *Runner) Cancel() {
	r.mu.Lock()
	cur := r.cur
	if r.state != StateRunning || cur == nil {
		r.mu.Unlock()
		return
	}
	already := cur.cancelled
	cur.cancelled = true
	r.mu.Unlock()

	if already {
		<-cur.done
		return
	}

	clog.Info("cancelling build process (pid %d)", cur.pid)
	r.emitOutput(msgCancelling)
	r.terminate(cur, r.opts.CancelGrace)
}

// Close tears the runner down. A running process is terminated with
// TeardownGrace between TERM and KILL, then the temporary script is
// removed. Launch fails with ErrClosed afterwards. Close is idempotent.
func (r *Runner) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	cur := r.cur
	if cur != nil {
		cur.cancelled = true
	}
	r.mu.Unlock()

	if cur != nil {
		clog.Info("terminating build process (pid %d) on teardown", cur.pid)
		r.terminate(cur, r.opts.TeardownGrace)
	}

	r.mu.Lock()
	path := r.scriptPath
	r.scriptPath = ""
	r.mu.Unlock()
	if path != "" {
		removeScript(path)
	}
	return nil
}

func (r *Runner) writeScript(script string) (string, error) {
	if !strings.HasPrefix(script, "#!") {
		script = render.Shebang + "\n" + script
	}
	if !strings.HasSuffix(script, "\n") {
		script += "\n"
	}

	f, err := os.CreateTemp(r.opts.TempDir, r.opts.ScriptPattern)
	if err != nil {
		return "", err
	}
	path := f.Name()

	r.mu.Lock()
	r.scriptPath = path
	r.mu.Unlock()

	if _, err := f.WriteString(script); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	clog.Debug("wrote build script %s", path)
	return path, nil
}

func (r *Runner) command(path, workDir string) *exec.Cmd {
	var cmd *exec.Cmd
	if r.opts.Shell != "" {
		cmd = exec.Command(r.opts.Shell, path)
	} else {
		cmd = exec.Command(path)
	}
	cmd.Dir = workDir
	if len(r.opts.Env) > 0 {
		cmd.Env = os.Environ()
		for k, v := range r.opts.Env {
			cmd.Env = append(cmd.Env, k+"="+v)
		}
	}
	// Own process group so TERM and KILL reach the build tools too.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	return cmd
}

// abort finishes a launch attempt that failed before a process existed.
func (r *Runner) abort(cur *run, msg string, kind FailureKind) {
	clog.Info("launch failed: %s", strings.TrimSpace(msg))
	cur.result = Result{
		State:    StateFailed,
		Kind:     kind,
		ExitCode: -1,
		Message:  strings.TrimSpace(msg),
	}
	close(cur.exited)
	r.finish(cur, msg)
}

// finish delivers the terminal notifications for cur and returns the
// runner to Idle.
func (r *Runner) finish(cur *run, line string) {
	r.mu.Lock()
	r.state = cur.result.State
	r.mu.Unlock()

	r.emitOutput(line)

	// The runner is Idle by the time Finished is delivered.
	r.mu.Lock()
	r.state = StateIdle
	if r.cur == cur {
		r.cur = nil
	}
	r.mu.Unlock()

	res := cur.result
	r.notify(func(l Listener) { l.Finished(res.Success(), res.Message) })
	close(cur.done)
}

// relay copies the pipe to the listener in chunks, holding back an
// incomplete trailing UTF-8 sequence until the rest of it arrives.
func (r *Runner) relay(pr *os.File) error {
	buf := make([]byte, 4096)
	var pending []byte
	for {
		n, err := pr.Read(buf)
		if n > 0 {
			data := append(pending, buf[:n]...)
			cut := completeRunes(data)
			r.emitOutput(decode(data[:cut]))
			pending = append([]byte(nil), data[cut:]...)
		}
		if err != nil {
			r.emitOutput(decode(pending))
			if errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) {
				return nil
			}
			return err
		}
	}
}

// wait reaps the process, drains its output and classifies the outcome.
func (r *Runner) wait(cmd *exec.Cmd, cur *run, pr *os.File, readDone <-chan error) {
	waitErr := cmd.Wait()
	close(cur.exited)

	var readErr error
	select {
	case readErr = <-readDone:
	case <-time.After(r.opts.DrainTimeout):
		clog.Debug("output still open %s after exit, closing", r.opts.DrainTimeout)
		pr.Close()
		readErr = <-readDone
	}
	pr.Close()

	r.mu.Lock()
	cancelled, timedOut := cur.cancelled, cur.timedOut
	r.mu.Unlock()

	cur.result = classify(waitErr, readErr, cancelled, timedOut)
	cur.result.Duration = time.Since(cur.started)

	if cur.result.Success() {
		clog.Info("build process finished in %s", cur.result.Duration.Round(time.Millisecond))
	} else {
		clog.Info("build process %s: %s", cur.result.State, cur.result.Message)
	}
	r.finish(cur, cur.result.Message+"\n")
}

// watch terminates the run when ctx ends before the process does.
func (r *Runner) watch(ctx context.Context, cur *run) {
	select {
	case <-ctx.Done():
	case <-cur.exited:
		return
	}

	r.mu.Lock()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		cur.timedOut = true
	} else {
		cur.cancelled = true
	}
	r.mu.Unlock()

	clog.Info("context done for pid %d: %v", cur.pid, ctx.Err())
	r.terminate(cur, r.opts.CancelGrace)
}

// terminate sends TERM to the process group, escalates to KILL after grace
// and waits for the finished notification.
func (r *Runner) terminate(cur *run, grace time.Duration) {
	signalGroup(cur.pid, unix.SIGTERM)

	timer := time.NewTimer(grace)
	defer timer.Stop()

	select {
	case <-cur.exited:
	case <-timer.C:
		r.emitOutput(msgKilling)
		signalGroup(cur.pid, unix.SIGKILL)
	}
	<-cur.done
}

func (r *Runner) emitOutput(chunk string) {
	if chunk == "" {
		return
	}
	r.mu.Lock()
	r.output.WriteString(chunk)
	r.mu.Unlock()
	r.notify(func(l Listener) { l.Output(chunk) })
}

func (r *Runner) notify(fn func(Listener)) {
	if r.listener == nil {
		return
	}
	r.notifyMu.Lock()
	defer r.notifyMu.Unlock()
	fn(r.listener)
}

func classify(waitErr, readErr error, cancelled, timedOut bool) Result {
	res := Result{ExitCode: -1}
	var exitErr *exec.ExitError

	switch {
	case timedOut:
		res.State, res.Kind = StateFailed, FailureTimedOut
	// A cancel that races a clean exit still counts as cancelled.
	case cancelled:
		res.State, res.Kind = StateCancelled, FailureCancelled
	case waitErr == nil && readErr != nil:
		res.State, res.Kind, res.ExitCode = StateFailed, FailureReadError, 0
	case waitErr == nil:
		res.State, res.Kind, res.ExitCode = StateCompleted, FailureNone, 0
	case errors.As(waitErr, &exitErr) && exitErr.ExitCode() >= 0:
		res.State, res.Kind, res.ExitCode = StateFailed, FailureExitCode, exitErr.ExitCode()
		res.Message = "Process failed with exit code " + strconv.Itoa(res.ExitCode)
		return res
	case errors.As(waitErr, &exitErr):
		res.State, res.Kind = StateFailed, FailureCrashed
	default:
		res.State, res.Kind = StateFailed, FailureUnknown
	}
	res.Message = res.Kind.Message()
	return res
}

func signalGroup(pid int, sig unix.Signal) {
	if pid <= 0 {
		return
	}
	if err := unix.Kill(-pid, sig); err != nil && !errors.Is(err, unix.ESRCH) {
		clog.Warn("failed to send %s to process group %d: %v", unix.SignalName(sig), pid, err)
	}
}

func removeScript(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		clog.Warn("failed to remove build script %s: %v", path, err)
	}
}

// completeRunes returns the length of the longest prefix of b that does
// not end in a truncated UTF-8 sequence.
func completeRunes(b []byte) int {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if utf8.RuneStart(b[i]) {
			if utf8.FullRune(b[i:]) {
				return len(b)
			}
			return i
		}
	}
	return len(b)
}

func decode(b []byte) string {
	return strings.ToValidUTF8(string(b), "\uFFFD")
}
