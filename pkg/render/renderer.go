package render

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/agendagraph/pkg/errors"
)

const (
	mmdcProgram  = "mmdc"
	npxProgram   = "npx"
	dotProgram   = "dot"
	mermaidCLI   = "@mermaid-js/mermaid-cli"
	tempPattern  = "agendagraph-*"
	maxStderrLen = 2048
)

// Renderer converts diagram text into images.
type Renderer struct {
	// LookPath locates external programs. Defaults to exec.LookPath.
	LookPath func(file string) (string, error)
	// Timeout bounds a single external run. Zero means no limit.
	Timeout time.Duration
	// TempDir holds the temporary diagram and image files. Empty means os.TempDir.
	TempDir string
	// Logger receives the command line before each external run.
	Logger *log.Logger
}

// New returns a Renderer with default settings.
func New(logger *log.Logger) *Renderer {
	if logger == nil {
		logger = log.Default()
	}
	return &Renderer{LookPath: exec.LookPath, Logger: logger}
}

func (r *Renderer) lookPath(file string) (string, error) {
	if r.LookPath != nil {
		return r.LookPath(file)
	}
	return exec.LookPath(file)
}

func (r *Renderer) logger() *log.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return log.Default()
}

// Command returns the argument vector that converts the diagram file in into
// an image at out. The first element is the program path resolved by
// LookPath. The embedded engine has no command and returns an error.
func (r *Renderer) Command(engine Engine, format Format, in, out string) ([]string, error) {
	switch engine {
	case EngineMermaid:
		if path, err := r.lookPath(mmdcProgram); err == nil {
			return []string{path, "-i", in, "-o", out}, nil
		}
		if path, err := r.lookPath(npxProgram); err == nil {
			return []string{path, "-y", mermaidCLI, mmdcProgram, "-i", in, "-o", out}, nil
		}
		return nil, errors.New(errors.ErrCodeRendererNotFound,
			"mmdc not found; install %s or ensure npx is available", mermaidCLI)
	case EngineGraphviz:
		path, err := r.lookPath(dotProgram)
		if err != nil {
			return nil, errors.New(errors.ErrCodeRendererNotFound,
				"graphviz 'dot' not found; install graphviz to render DOT to images")
		}
		return []string{path, "-T" + string(format), in, "-o", out}, nil
	case EngineEmbedded:
		return nil, errors.New(errors.ErrCodeInvalidEngine, "embedded engine runs in-process")
	}
	return nil, errors.New(errors.ErrCodeInvalidEngine, "invalid engine: %s", engine)
}

// Render converts text, written in engine's grammar, into an image and
// returns its bytes.
func (r *Renderer) Render(ctx context.Context, engine Engine, format Format, text string) ([]byte, error) {
	if engine == EngineEmbedded {
		return RenderDOT(ctx, text, format)
	}

	dir, err := os.MkdirTemp(r.TempDir, tempPattern)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create temp dir")
	}
	defer os.RemoveAll(dir)

	out := filepath.Join(dir, "diagram."+string(format))
	if err := r.RenderFile(ctx, engine, format, text, out); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(out)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRendererFailed, err, "read rendered image")
	}
	return data, nil
}

// RenderFile converts text into an image written to out.
func (r *Renderer) RenderFile(ctx context.Context, engine Engine, format Format, text, out string) error {
	if engine == EngineEmbedded {
		data, err := RenderDOT(ctx, text, format)
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeOutputFailed, err, "write %s", out)
		}
		return nil
	}

	in, err := r.writeTemp(engine, text)
	if err != nil {
		return err
	}
	defer os.Remove(in)

	args, err := r.Command(engine, format, in, out)
	if err != nil {
		return err
	}
	return r.run(ctx, args)
}

func (r *Renderer) writeTemp(engine Engine, text string) (string, error) {
	ext := ".dot"
	if engine == EngineMermaid {
		ext = ".mmd"
	}
	f, err := os.CreateTemp(r.TempDir, tempPattern+ext)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "create temp diagram file")
	}
	if _, err := f.WriteString(text); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", errors.Wrap(errors.ErrCodeInternal, err, "write temp diagram file")
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", errors.Wrap(errors.ErrCodeInternal, err, "close temp diagram file")
	}
	return f.Name(), nil
}

func (r *Renderer) run(ctx context.Context, args []string) error {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	r.logger().Info("Running: " + strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	var errBuf bytes.Buffer
	cmd.Stderr = &errBuf
	cmd.WaitDelay = time.Second

	err := cmd.Run()
	if err == nil {
		return nil
	}

	program := filepath.Base(args[0])
	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.Wrap(errors.ErrCodeRendererFailed, ctxErr, "%s did not finish", program)
	}

	var ee *exec.ExitError
	if stderrors.As(err, &ee) && ee.ExitCode() < 0 {
		// Terminated by a signal; there is no status to pass through.
		return errors.Wrap(errors.ErrCodeRendererFailed, err, "%s was stopped (%s)", program, ee.String())
	}
	if ee != nil {
		return &errors.ExitError{
			Program:  program,
			ExitCode: ee.ExitCode(),
			Stderr:   trimStderr(errBuf.String()),
		}
	}
	if stderrors.Is(err, exec.ErrNotFound) {
		return errors.Wrap(errors.ErrCodeRendererNotFound, err, "%s not found", program)
	}
	return errors.Wrap(errors.ErrCodeRendererFailed, err, "run %s", program)
}

func trimStderr(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxStderrLen {
		s = s[:maxStderrLen] + fmt.Sprintf("... (%d bytes truncated)", len(s)-maxStderrLen)
	}
	return s
}
