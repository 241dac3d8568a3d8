package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/tmplvars/cli/cmd/environ"
	"github.com/ardnew/tmplvars/log"
	"github.com/ardnew/tmplvars/tmpl"
)

const defaultEditor = "vi"

// editEnvCommand implements [tea.ExecCommand]. It opens the environment as
// YAML in the user's editor until the result decodes or the user gives up.
type editEnvCommand struct {
	env     tmpl.Environment
	ctxFunc func() context.Context
	logger  log.Logger

	// newEnv is nil after Run if the user emptied the file.
	newEnv tmpl.Environment

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (c *editEnvCommand) SetStdin(r io.Reader)  { c.stdin = r }
func (c *editEnvCommand) SetStdout(w io.Writer) { c.stdout = w }
func (c *editEnvCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run returns [ErrEditDeclined] if the user declines to fix a document that
// does not decode.
func (c *editEnvCommand) Run() error {
	ctx := c.ctxFunc()

	var sb strings.Builder
	if err := environ.Encode(ctx, &sb, c.env); err != nil {
		return err
	}

	path, err := tempEnvFile()
	if err != nil {
		return err
	}
	defer os.Remove(path)

	content := sb.String()
	in := bufio.NewReader(c.stdin)

	for attempt := 1; ; attempt++ {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			return err
		}

		if err := c.runEditor(ctx, path); err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		content = string(data)
		if strings.TrimSpace(content) == "" {
			return nil
		}

		env, err := environ.DecodeString(ctx, content)

		c.logger.TraceContext(ctx, "decode edited environment",
			slog.Int("attempt", attempt),
			slog.Int("bytes", len(content)),
			slog.Bool("ok", err == nil),
		)

		if err == nil {
			c.newEnv = env

			return nil
		}

		fmt.Fprintf(c.stderr, "\n%s\n", err)

		if !confirm(in, c.stdout, "Re-edit? [Y/n] ") {
			return ErrEditDeclined
		}
	}
}

// runEditor opens path in $VISUAL, $EDITOR or vi, in that order.
func (c *editEnvCommand) runEditor(ctx context.Context, path string) error {
	editor := defaultEditor

	for _, name := range []string{"VISUAL", "EDITOR"} {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			editor = v

			break
		}
	}

	args := append(strings.Fields(editor), path)

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = c.stdin, c.stdout, c.stderr

	return cmd.Run()
}

func tempEnvFile() (string, error) {
	f, err := os.CreateTemp("", "tmplvars-env-*.yaml")
	if err != nil {
		return "", err
	}

	return f.Name(), f.Close()
}

// confirm prints prompt and reports whether the answer is not a "no". End
// of input counts as no.
func confirm(r *bufio.Reader, w io.Writer, prompt string) bool {
	fmt.Fprint(w, prompt)

	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "n", "no":
		return false
	default:
		return true
	}
}
