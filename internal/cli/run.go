package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ynput/applaunch/internal/config"
	"github.com/ynput/applaunch/internal/descriptor"
	"github.com/ynput/applaunch/internal/launch"
	"github.com/ynput/applaunch/internal/logging"
	"github.com/ynput/applaunch/internal/procutil"
)

// runLaunch executes the full pipeline against the descriptor at path:
// load, build environment, resolve redirection, spawn detached, reconcile
// the pid, write the result back.
func runLaunch(path string, opts rootOptions) error {
	cfg, err := loadConfig(opts.configFile)
	if err != nil {
		return err
	}

	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.Logging.Format = opts.logFormat
	}
	if opts.waitSet {
		cfg.Launch.ReconcileWait = opts.wait
	}

	logging.Init(logging.Config{
		Level:        cfg.Logging.Level,
		Format:       cfg.Logging.Format,
		EnableCaller: cfg.Logging.EnableCaller,
	})
	logger := logging.Component("applaunch").With().
		Str("run_id", uuid.NewString()).
		Str("descriptor", path).
		Logger()

	d, err := descriptor.Load(path)
	if err != nil {
		return err
	}

	return launchDescriptor(d, cfg, logger)
}

func launchDescriptor(d *descriptor.Descriptor, cfg *config.Config, logger zerolog.Logger) error {
	if !d.HasArgs {
		// Nothing to spawn and nothing to write back, but the session
		// detach still happens before exiting.
		procutil.DetachSession()
		logger.Debug().Msg("descriptor has no argument vector, nothing to launch")
		return nil
	}

	// The launcher leaves its controlling session on every path out of
	// here, spawn failure included, so a dying supervisor cannot take
	// this process or its child down with it.
	defer procutil.DetachSession()

	env := launch.BuildEnv(d)

	streams, err := launch.ResolveStreams(d, cfg.Launch.DefaultSink)
	if err != nil {
		return failSpawn(d, logger, err)
	}

	pid, err := launch.Spawn(d, env, streams)
	streams.Close()
	if err != nil {
		return failSpawn(d, logger, err)
	}
	logger.Debug().Int("pid", pid).Msg("process spawned")

	final := launch.ReconcilePID(d.PIDFile, pid, cfg.Launch.ReconcileWait)
	if final != pid {
		logger.Debug().Int("pid", pid).Int("reported_pid", final).Msg("pid file superseded spawned pid")
	}
	logger.Debug().Int("pid", final).Bool("alive", procutil.IsProcessAlive(final)).Msg("launch complete")

	if err := d.WriteBack(&final); err != nil {
		// A failed write-back is diagnosed but does not turn a
		// successful launch into a failure.
		logger.Error().Err(err).Msg("descriptor write-back failed")
	}
	return nil
}

// failSpawn records the failed spawn as "pid": null in the descriptor and
// surfaces the spawn error as the run's outcome.
func failSpawn(d *descriptor.Descriptor, logger zerolog.Logger, spawnErr error) error {
	if err := d.WriteBack(nil); err != nil {
		logger.Error().Err(err).Msg("descriptor write-back failed")
	}
	return fmt.Errorf("spawn: %w", spawnErr)
}

func loadConfig(path string) (*config.Config, error) {
	loader := config.NewLoader()
	if path != "" {
		loader.SetConfigFile(path)
	}
	return loader.Load()
}
