package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eliteGoblin/focusd/desk_org/internal/config"
	"github.com/eliteGoblin/focusd/desk_org/internal/infra"
	"github.com/eliteGoblin/focusd/desk_org/internal/usecase"
)

// app holds state shared by all subcommands of one invocation.
type app struct {
	configPath string
	verbose    bool

	resolvedPath string
	// stored is the record read from the config file and the one that gets
	// saved; cfg is the runtime copy with environment overrides applied.
	stored       *config.Config
	cfg          *config.Config
	fileProblems bool
	backedUp     bool
	logger       *zap.Logger
}

func (a *app) setup(cmd *cobra.Command) error {
	a.logger = newLogger(cmd.ErrOrStderr(), a.verbose)

	resolved := a.configPath
	if resolved == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return fmt.Errorf("failed to resolve config path: %w", err)
		}
		resolved = p
	}
	a.resolvedPath = resolved

	stored, err := config.LoadFile(resolved)
	if err != nil {
		a.fileProblems = true
		a.warnProblems(err)
	}
	a.stored = stored

	a.cfg = stored.Clone()
	if err := a.cfg.ApplyEnv(); err != nil {
		a.warnProblems(err)
	}
	return nil
}

// warnProblems logs each field that was replaced by its default.
func (a *app) warnProblems(err error) {
	for _, problem := range unjoin(err) {
		a.logger.Warn("configuration problem", zap.Error(problem))
	}
}

func (a *app) close() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// update applies fn to the stored record and the runtime copy, then saves
// the stored record. A config file that loaded with problems is backed up
// before it is first overwritten.
func (a *app) update(fn func(*config.Config)) error {
	fn(a.stored)
	fn(a.cfg)

	if a.fileProblems && !a.backedUp {
		backup, err := config.Backup(a.resolvedPath)
		if err != nil {
			return fmt.Errorf("failed to back up config: %w", err)
		}
		a.backedUp = true
		if backup != "" {
			a.logger.Warn("config had problems; original saved before overwriting", zap.String("backup", backup))
		}
	}

	if err := config.Save(a.resolvedPath, a.stored); err != nil {
		return err
	}
	a.logger.Debug("config saved", zap.String("path", a.resolvedPath))
	return nil
}

// workspace builds the shared workspace for the configured (or overridden)
// monitor directory.
func (a *app) workspace(dirOverride string, opts ...usecase.WorkspaceOption) (*usecase.Workspace, error) {
	target := a.cfg.MonitorDirectory
	if dirOverride != "" {
		expanded, err := infra.ExpandPath(dirOverride)
		if err != nil {
			return nil, err
		}
		target = expanded
	}

	table, err := a.cfg.RuleTable()
	if err != nil {
		a.logger.Warn("ignoring invalid rules", zap.Error(err))
	}
	for _, c := range table.Conflicts() {
		a.logger.Warn("extension registered in several categories",
			zap.String("extension", c.Extension),
			zap.String("winner", c.Winner),
			zap.String("shadowed", c.Shadowed))
	}

	organizer := usecase.NewOrganizer(
		infra.NewFileSystemManager(),
		infra.NewMover(a.logger),
		a.logger)

	opts = append([]usecase.WorkspaceOption{
		usecase.WithPassGate(infra.NewPassLock(infra.DefaultLockDir(), a.logger)),
	}, opts...)
	return usecase.NewWorkspace(target, table, organizer, a.logger, opts...), nil
}

// newLogger writes human-readable logs to terminals and JSON otherwise.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}

	var encoder zapcore.Encoder
	if isTerminal(w) {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		encoder = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.TimeKey = "time"
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), zap.NewAtomicLevelAt(level))
	return zap.New(core)
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func unjoin(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

var errUsage = errors.New("invalid arguments")
