// Command todo - личный список задач в терминале.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todoList/internal/app"
	"todoList/internal/config"
	"todoList/internal/service"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := newCLI(os.Stdout)
	err := c.root().ExecuteContext(ctx)
	c.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", errorMessage(err))
		os.Exit(1)
	}
}

// cli держит общее для всех подкоманд состояние
type cli struct {
	configPath  string
	out         io.Writer
	interactive func() bool
	now         func() time.Time

	app *app.App
	svc *service.TaskService
}

func newCLI(out io.Writer) *cli {
	return &cli{
		out:         out,
		interactive: isInteractive,
		now:         time.Now,
	}
}

func (c *cli) root() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "todo",
		Short:         "Personal task list with deadlines",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.open(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().StringVar(&c.configPath, "config", "", "path to config.yml (default: $TODO_CONFIG or ./config.yml)")

	rootCmd.AddCommand(
		c.addCmd(),
		c.editCmd(),
		c.doneCmd(),
		c.notesCmd(),
		c.rmCmd(),
		c.clearCmd(),
		c.listCmd(),
		c.uiCmd(),
	)
	return rootCmd
}

func (c *cli) open(ctx context.Context) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}

	a := app.New(cfg)
	// логи в файл, чтобы не мешать выводу команд
	if err := a.Init(ctx, cfg.Logging.File); err != nil {
		return err
	}
	c.app = a
	c.svc = a.Service()
	return nil
}

func (c *cli) close() {
	if c.app != nil {
		c.app.Shutdown()
		c.app = nil
	}
}

func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// errorMessage показывает пользователю текст бизнес-ошибки без кода
func errorMessage(err error) string {
	var busErr *service.BusinessError
	if errors.As(err, &busErr) {
		if reason, ok := busErr.Details["reason"].(string); ok {
			return busErr.Message + ": " + reason
		}
		return busErr.Message
	}
	return err.Error()
}
