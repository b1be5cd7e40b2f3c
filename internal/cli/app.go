package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/dmitrijs2005/vaultkeeper/internal/backup"
	"github.com/dmitrijs2005/vaultkeeper/internal/common"
	"github.com/dmitrijs2005/vaultkeeper/internal/config"
	"github.com/dmitrijs2005/vaultkeeper/internal/cryptox"
	"github.com/dmitrijs2005/vaultkeeper/internal/filex"
	"github.com/dmitrijs2005/vaultkeeper/internal/logging"
	"github.com/dmitrijs2005/vaultkeeper/internal/repositories/repomanager"
	"github.com/dmitrijs2005/vaultkeeper/internal/services"
	"github.com/dmitrijs2005/vaultkeeper/internal/session"
	"github.com/dmitrijs2005/vaultkeeper/internal/storage"
	"github.com/dmitrijs2005/vaultkeeper/internal/timex"
	"github.com/dmitrijs2005/vaultkeeper/internal/vault"
)

const LogFileName = "vault.log"

// Version is stamped at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

// seams for tests
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword

	newS3Sink = func(ctx context.Context, c config.S3Config) (backup.Sink, error) {
		s, err := backup.NewS3Sink(ctx, c)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
)

type App struct {
	config  *config.Config
	vault   *vault.Vault
	clock   timex.Clock
	log     logging.Logger
	reader  *bufio.Reader
	out     io.Writer
	dirSink backup.Sink

	closeMu sync.Mutex
	closers []func() error
}

// NewApp opens the vault in cfg.DataDir. The returned App owns the database,
// the process lock, the log file and the session monitor until Close.
func NewApp(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) (*App, error) {
	dir, err := filex.EnsureDir(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	app := &App{config: cfg, clock: timex.SystemClock{}, reader: bufio.NewReader(in), out: out}

	logFile, err := os.OpenFile(filepath.Join(dir, LogFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("log file: %w", err)
	}
	app.closers = append(app.closers, logFile.Close)
	app.log = logging.NewJSONLogger(logFile, cfg.LogLevel).With("app", common.AppName, "version", Version)

	km := cryptox.NewKeyManager(filepath.Join(dir, cryptox.KeyFileName))
	if err := km.LoadOrCreate(); err != nil {
		app.log.Error(ctx, "key unavailable", "error", err)
		_ = app.Close()
		return nil, err
	}

	repos := repomanager.NewSQLiteRepositoryManager()
	store, err := storage.Open(ctx, dir, repos, app.log)
	if err != nil {
		app.log.Error(ctx, "storage unavailable", "error", err)
		_ = app.Close()
		return nil, err
	}
	app.closers = append(app.closers, store.Close)

	cipher := cryptox.NewCipher(km)
	prefs := services.NewPreferenceService(store.DB, repos, app.clock)
	audit := services.NewAuditService(store.DB, repos, app.clock, app.log)
	sessions := session.NewManager(app.clock, prefs, cfg.DefaultSessionTimeout, app.log)

	app.vault = vault.New(vault.Deps{
		Credentials: services.NewCredentialService(store.DB, repos, cipher, app.clock),
		Auth:        services.NewAuthService(store.DB, repos, cipher, app.clock),
		Preferences: prefs,
		Audit:       audit,
		Sessions:    sessions,
		Clock:       app.clock,
		Log:         app.log,
		Agent:       common.AppName + "-cli/" + Version,
	})
	app.dirSink = backup.NewDirSink(dir)

	if _, err := audit.Cleanup(ctx, cfg.AuditRetentionDays); err != nil {
		app.log.Warn(ctx, "startup audit cleanup failed", "error", err)
	}

	sessions.StartMonitor(ctx, cfg.SessionMonitorInterval)
	app.closers = append(app.closers, func() error { sessions.Stop(); return nil })

	app.log.Info(ctx, "vault opened", "data_dir", dir)
	return app, nil
}

// Run starts the REPL and blocks until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	printlnFn("Welcome to the vault (type 'help' for commands)")
	if needs, err := a.vault.NeedsSignup(ctx); err == nil && needs {
		printlnFn("No master account yet: run 'signup' first.")
	}
	runREPL(ctx, a, a.status, a.reader)
	a.vault.Logout(ctx)
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	a.closeMu.Lock()
	defer a.closeMu.Unlock()

	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) isLoggedIn() bool {
	return a.vault.Session().State == session.Active
}

func (a *App) status() string {
	s := a.vault.Session()
	switch s.State {
	case session.Active:
		return fmt.Sprintf(" (%s)", s.Identity)
	case session.Expired:
		return " (locked)"
	}
	return ""
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
