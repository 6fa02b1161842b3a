// Package extproc wraps the external processes the session controller
// cooperates with: the mail engine, the fuzzy picker, the pager, the text
// editor, and the archive extractor. Everything blocking or interactive
// goes through the Runner interface so tests can substitute fakes.
package extproc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Runner executes external commands. Exactly one command runs at a time;
// interactive commands hold the foreground until they exit.
type Runner interface {
	// Output runs a command, feeding stdin if non-nil, and returns its
	// stdout. Stderr passes through to the terminal so interactive
	// filters (fzf) can draw their UI.
	Output(ctx context.Context, stdin io.Reader, name string, args ...string) ([]byte, error)

	// Foreground runs a command attached to the controlling terminal and
	// blocks until it exits. Used for the editor and shell pass-through.
	Foreground(ctx context.Context, name string, args ...string) error

	// Page runs a command with the given stdin attached and stdout/stderr
	// on the terminal. Used for the pager.
	Page(ctx context.Context, stdin io.Reader, name string, args ...string) error
}

// ExecRunner is the production Runner backed by os/exec.
type ExecRunner struct{}

// Output implements Runner.
func (ExecRunner) Output(ctx context.Context, stdin io.Reader, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stderr = os.Stderr
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return out.Bytes(), fmt.Errorf("%s: %w", name, err)
	}
	return out.Bytes(), nil
}

// Foreground implements Runner.
func (ExecRunner) Foreground(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Page implements Runner.
func (ExecRunner) Page(ctx context.Context, stdin io.Reader, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Command splits a configured command vector into name and arguments.
// An empty vector is a configuration bug; callers validate at load time.
func Command(words []string) (string, []string) {
	if len(words) == 0 {
		return "", nil
	}
	return words[0], words[1:]
}

// Picker hands the result table to the interactive multi-select filter and
// returns the chosen lines. An empty choice (user aborted the picker) is
// returned as an empty slice, not an error.
type Picker struct {
	Cmd []string
	Run Runner
}

// Pick feeds the given lines to the picker and returns the subset the user
// marked, in picker output order.
func (p Picker) Pick(ctx context.Context, lines []string) ([]string, error) {
	if len(lines) == 0 {
		return nil, nil
	}
	input := strings.Join(lines, "\n") + "\n"
	name, args := Command(p.Cmd)
	out, err := p.Run.Output(ctx, strings.NewReader(input), name, args...)
	if err != nil {
		// Pickers exit non-zero when the user cancels; treat any
		// failure with empty output as "nothing chosen".
		if len(bytes.TrimSpace(out)) == 0 {
			return nil, nil
		}
		return nil, err
	}
	var chosen []string
	for _, line := range strings.Split(string(out), "\n") {
		if strings.TrimSpace(line) != "" {
			chosen = append(chosen, line)
		}
	}
	return chosen, nil
}

// Extractor unpacks an archive stream into a directory, discarding leading
// path components so message files land directly under the target.
type Extractor struct {
	Tar string
	Run Runner
}

// Extract feeds the archive stream to tar, anchored at dir, stripping the
// given number of leading path components.
func (e Extractor) Extract(ctx context.Context, archive io.Reader, dir string, strip int) error {
	_, err := e.Run.Output(ctx, archive, e.Tar,
		"-x", "-f", "-", fmt.Sprintf("--strip-components=%d", strip), "-C", dir)
	return err
}
