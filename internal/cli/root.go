// Пакет cli — команды mroctl: вход и выход, профиль, справочники,
// тикеты и SLA дашборда поверх клиентского слоя MRO.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/bambang-ap/kmm-mro-shared/internal/app"
	"github.com/bambang-ap/kmm-mro-shared/internal/config"
	"github.com/bambang-ap/kmm-mro-shared/internal/notify"
)

// sessionExpiredHint — текст вместо перехода на экран входа после 401.
const sessionExpiredHint = "Session expired. Run `mroctl login` to sign in again."

// runtime — общее состояние команд: флаги и собранный клиентский слой.
type runtime struct {
	out    io.Writer
	errOut io.Writer
	in     io.Reader
	now    func() time.Time

	apiURL      string
	sessionFile string
	jsonOutput  bool
	verbose     bool

	cfg     *config.Config
	app     *app.App
	closeFn func() error
}

// NewRootCmd создаёт корневую команду mroctl.
func NewRootCmd() *cobra.Command {
	return newRootCmd(time.Now)
}

func newRootCmd(now func() time.Time) *cobra.Command {
	rt := &runtime{now: now}

	rootCmd := &cobra.Command{
		Use:           "mroctl",
		Short:         "Operator CLI for the KMM MRO backend",
		Version:       config.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.open(cmd)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return rt.close()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rt.apiURL, "api-url", "", "backend address without base path (overrides MRO_API_URL)")
	flags.StringVar(&rt.sessionFile, "session-file", "", "session file (overrides MRO_SESSION_FILE)")
	flags.BoolVar(&rt.jsonOutput, "json", false, "print JSON instead of tables")
	flags.BoolVarP(&rt.verbose, "verbose", "v", false, "log requests to stderr")

	rootCmd.AddCommand(
		newLoginCommand(rt),
		newLogoutCommand(rt),
		newWhoamiCommand(rt),
		newStoresCommand(rt),
		newTicketsCommand(rt),
		newDashboardCommand(rt),
	)

	return rootCmd
}

// open загружает конфигурацию и собирает клиентский слой.
// Сессия CLI всегда хранится в файле.
func (rt *runtime) open(cmd *cobra.Command) error {
	rt.out = cmd.OutOrStdout()
	rt.errOut = cmd.ErrOrStderr()
	rt.in = cmd.InOrStdin()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("конфигурация: %w", err)
	}
	if rt.apiURL != "" {
		cfg.APIURL = rt.apiURL
	}
	if rt.sessionFile != "" {
		cfg.SessionFile = rt.sessionFile
	}
	cfg.SessionStorage = config.SessionStorageFile
	rt.cfg = cfg

	level := slog.LevelWarn
	if rt.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(rt.errOut, &slog.HandlerOptions{Level: level}))

	store, closeFn, err := app.OpenSession(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	rt.closeFn = closeFn

	rt.app = app.New(cfg, store, logger, app.Options{
		Notifier: notify.NewCenter(cfg.NotifyDuration, notify.WriterSink(rt.errOut)),
		Navigator: func(context.Context, string) {
			fmt.Fprintln(rt.errOut, sessionExpiredHint)
		},
	})
	return nil
}

func (rt *runtime) close() error {
	if rt.closeFn == nil {
		return nil
	}
	return rt.closeFn()
}
