package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/lustre-atelier/backoffice/internal/feedback"
)

const shellPrompt = "backoffice> "

func NewShellCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive session keeping the stores between commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := OpenEnv(cmd)
			if err != nil {
				return err
			}
			env.Interactive = true

			ctx, cancel := context.WithCancel(context.WithValue(cmd.Context(), EnvKey, env))
			defer cancel()

			if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
				stop := serveMetrics(addr, env)
				defer stop()
			}

			return runShell(ctx, env)
		},
	}
	command.Flags().String("metrics-addr", "", "Serve Prometheus metrics of the session on this address, e.g. :9090")
	return command
}

// newShellRoot returns the command tree available inside the shell.
// A new tree is built for every line so flag values do not leak between commands.
func newShellRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "backoffice",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(NewResourceCmds()...)
	root.AddCommand(NewUploadCmd(), NewDashboardCmd())
	return root
}

func runShell(ctx context.Context, env *Env) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          shellPrompt,
		HistoryFile:     historyFilePath(),
		HistoryLimit:    1000,
		AutoComplete:    completer(newShellRoot()),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return errors.WithMessage(err, "could not start the shell")
	}
	defer rl.Close()

	toasts, unsubscribe := env.Session.Feedback.Subscribe()
	defer unsubscribe()
	go func() {
		for n := range toasts {
			fmt.Fprintln(rl.Stderr(), feedback.Render(n))
		}
	}()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				return nil
			}
			return err
		}

		args, err := splitLine(line)
		if err != nil {
			fmt.Fprintln(rl.Stderr(), "Error:", err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" || args[0] == "quit" {
			return nil
		}

		root := newShellRoot()
		root.SetArgs(args)
		root.SetOut(rl.Stdout())
		root.SetErr(rl.Stderr())
		if err := root.ExecuteContext(ctx); err != nil {
			fmt.Fprintln(rl.Stderr(), "Error:", err)
		}
	}
}

func serveMetrics(addr string, env *Env) (stop func()) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", env.Session.Metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		slog.Info("Serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server stopped", "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			slog.Warn("could not stop metrics server", "error", err)
		}
	}
}

// completer mirrors the command tree for tab completion.
func completer(root *cobra.Command) *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for _, c := range root.Commands() {
		items = append(items, completerItem(c))
	}
	items = append(items, readline.PcItem("exit"))
	return readline.NewPrefixCompleter(items...)
}

func completerItem(c *cobra.Command) readline.PrefixCompleterInterface {
	var children []readline.PrefixCompleterInterface
	for _, sub := range c.Commands() {
		children = append(children, completerItem(sub))
	}
	return readline.PcItem(c.Name(), children...)
}

func historyFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "backoffice_history")
	}
	return filepath.Join(home, ".backoffice_history")
}

// splitLine splits a shell line into arguments. Single and double quotes group words,
// a backslash escapes the next character outside single quotes.
func splitLine(line string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)

	for _, r := range line {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			inWord = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inWord = true
		case r == ' ' || r == '\t':
			if inWord {
				args = append(args, current.String())
				current.Reset()
				inWord = false
			}
		default:
			current.WriteRune(r)
			inWord = true
		}
	}

	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if escaped {
		return nil, errors.New("trailing backslash")
	}
	if inWord {
		args = append(args, current.String())
	}
	return args, nil
}
