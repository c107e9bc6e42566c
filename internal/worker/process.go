package worker

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"

	"github.com/editkit/tsbridge/internal/logging"
	"github.com/editkit/tsbridge/internal/protocol"
)

// ProcessConfig defines how to start a language worker.
type ProcessConfig struct {
	// Command is the executable to run.
	Command string

	// Args are command-line arguments.
	Args []string

	// Env are additional environment variables.
	Env map[string]string

	// WorkDir is the working directory (defaults to the current one).
	WorkDir string
}

// Process manages a running language worker and the transport bound to
// its stdio pipes.
type Process struct {
	mu sync.Mutex

	config ProcessConfig
	log    *logging.Logger

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	stderr io.ReadCloser

	transport *Transport

	cancel  context.CancelFunc
	started atomic.Bool
	exitCh  chan error
}

// NewProcess creates a worker process handle (not yet started).
func NewProcess(config ProcessConfig, log *logging.Logger) *Process {
	if log == nil {
		log = logging.Null
	}
	return &Process{
		config: config,
		log:    log,
		exitCh: make(chan error, 1),
	}
}

// Start spawns the worker and wires its stdio pipes into a transport.
// The caller registers a message handler on Transport and then calls
// Transport.Start to begin the read pump.
func (p *Process) Start(ctx context.Context, meta protocol.Metadata) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started.Load() {
		return fmt.Errorf("worker already started")
	}

	var procCtx context.Context
	procCtx, p.cancel = context.WithCancel(ctx)

	cmd := exec.CommandContext(procCtx, p.config.Command, p.config.Args...)

	cmd.Env = os.Environ()
	for k, v := range p.config.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}
	if p.config.WorkDir != "" {
		cmd.Dir = p.config.WorkDir
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		stdin.Close()
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		stdin.Close()
		stdout.Close()
		return fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		stdin.Close()
		stdout.Close()
		stderr.Close()
		return fmt.Errorf("start %s: %w", p.config.Command, err)
	}

	p.cmd = cmd
	p.stdin = stdin
	p.stdout = stdout
	p.stderr = stderr
	p.started.Store(true)

	p.transport = NewTransport(stdout, stdin, stdin, meta, p.log)

	go p.drainStderr()
	go p.wait()

	return nil
}

// Transport returns the transport bound to the worker's stdio. Nil
// before Start.
func (p *Process) Transport() *Transport {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.transport
}

// Done returns a channel that receives the worker's exit error once.
func (p *Process) Done() <-chan error {
	return p.exitCh
}

// Stop closes the transport and terminates the worker.
func (p *Process) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started.Load() {
		return nil
	}
	if p.transport != nil {
		p.transport.Close()
	}
	if p.cancel != nil {
		p.cancel()
	}
	return nil
}

// drainStderr logs worker stderr lines so failures are visible in the
// bridge log rather than lost.
func (p *Process) drainStderr() {
	scanner := bufio.NewScanner(p.stderr)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		p.log.Debug("worker stderr: %s", scanner.Text())
	}
}

// wait reaps the worker process and reports its exit.
func (p *Process) wait() {
	err := p.cmd.Wait()
	if err != nil {
		p.log.Warn("worker exited: %v", err)
	} else {
		p.log.Info("worker exited")
	}
	p.exitCh <- err
}
