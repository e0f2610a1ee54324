package sandbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/ragsql/pkg/datastore"
	"github.com/papercomputeco/ragsql/pkg/logger"
)

const (
	DefaultPython  = "python3"
	DefaultTimeout = 60 * time.Second

	// waitDelay bounds how long Wait blocks on inherited pipes after the
	// interpreter is killed.
	waitDelay = 2 * time.Second
)

// Config configures the python runner.
type Config struct {
	// Python is the interpreter executable. Defaults to python3 on PATH.
	Python string

	// WorkDir holds the temporary script and CSV files. Defaults to the
	// system temp directory.
	WorkDir string

	Timeout  time.Duration
	Progress ProgressFunc
	Logger   *slog.Logger
}

// Python runs analysis code with an external interpreter.
type Python struct {
	python   string
	workDir  string
	timeout  time.Duration
	progress ProgressFunc
	logger   *slog.Logger
}

// NewPython creates a runner from cfg.
func NewPython(cfg Config) *Python {
	p := &Python{
		python:   cfg.Python,
		workDir:  cfg.WorkDir,
		timeout:  cfg.Timeout,
		progress: cfg.Progress,
		logger:   cfg.Logger,
	}
	if p.python == "" {
		p.python = DefaultPython
	}
	if p.workDir == "" {
		p.workDir = os.TempDir()
	}
	if p.timeout == 0 {
		p.timeout = DefaultTimeout
	}
	if p.logger == nil {
		p.logger = logger.Nop()
	}
	return p
}

// Run exports the table, writes the script and executes it. The temporary
// files are removed on every path.
func (p *Python) Run(ctx context.Context, code string, table *datastore.Table) (*AnalysisOutput, error) {
	if table == nil {
		table = &datastore.Table{}
	}

	name := uuid.NewString()
	csvPath := filepath.Join(p.workDir, name+".csv")
	scriptPath := filepath.Join(p.workDir, name+".py")
	defer os.Remove(csvPath)
	defer os.Remove(scriptPath)

	if err := p.export(csvPath, table); err != nil {
		return nil, &Error{Stage: StageExport, Err: err}
	}

	if err := os.WriteFile(scriptPath, []byte(BuildScript(code, csvPath)), 0o600); err != nil {
		return nil, &Error{Stage: StageExport, Err: fmt.Errorf("writing script: %w", err)}
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, p.python, scriptPath)
	cmd.Dir = p.workDir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	start := time.Now()
	err := cmd.Run()
	p.logger.Debug("analysis finished",
		"python", p.python,
		"rows", table.Len(),
		"duration", time.Since(start),
	)

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &Error{Stage: StageTimeout, Stderr: stderr.String(), Err: ctx.Err()}
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &Error{
				Stage:    StageExit,
				ExitCode: exitErr.ExitCode(),
				Stderr:   stderr.String(),
				Err:      err,
			}
		}
		return nil, &Error{Stage: StageStart, Stderr: stderr.String(), Err: err}
	}

	out, err := ParseOutput(stdout.Bytes())
	if err != nil {
		return nil, &Error{Stage: StageOutput, Stderr: stderr.String(), Err: fmt.Errorf("decoding analysis output: %w", err)}
	}
	return out, nil
}

func (p *Python) export(path string, table *datastore.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating csv: %w", err)
	}

	if err := WriteCSV(f, table, p.progress); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

var _ Runner = (*Python)(nil)
