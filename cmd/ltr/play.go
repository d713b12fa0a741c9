package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/alfredjeanlab/linuxtrainer/internal/archive"
	"github.com/alfredjeanlab/linuxtrainer/internal/config"
	"github.com/alfredjeanlab/linuxtrainer/internal/events"
	"github.com/alfredjeanlab/linuxtrainer/internal/executor"
	"github.com/alfredjeanlab/linuxtrainer/internal/idgen"
	"github.com/alfredjeanlab/linuxtrainer/internal/journal"
	"github.com/alfredjeanlab/linuxtrainer/internal/levels"
	"github.com/alfredjeanlab/linuxtrainer/internal/matcher"
	"github.com/alfredjeanlab/linuxtrainer/internal/model"
	"github.com/alfredjeanlab/linuxtrainer/internal/session"
	"github.com/spf13/cobra"
)

const archiveTimeout = 30 * time.Second

var playCmd = &cobra.Command{
	Use:     "play",
	Short:   "Start a training session (the default command)",
	GroupID: "train",
	Example: `  ltr play
  ltr play --start 4 --no-exec
  ltr play --levels-dir ./levels`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	addPlayFlags(playCmd)
}

// addPlayFlags registers the session flags. They are shared by the root
// command, which plays by default, and by "ltr play".
func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().String("levels-dir", "", "directory of level files (default: built-in levels)")
	cmd.Flags().String("log-file", "", "session log file (default from config)")
	cmd.Flags().Bool("no-exec", false, "never run solved commands")
	cmd.Flags().Int("start", 0, "begin at the first level numbered at least N")
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyPlayFlags(cmd, cfg)

	sessionID, err := idgen.NewSessionID()
	if err != nil {
		return fmt.Errorf("generating session id: %w", err)
	}

	jnl, err := journal.Open(cfg.LogFile)
	if err != nil {
		logger.Warn("session log unavailable, continuing without it", "path", cfg.LogFile, "err", err)
		jnl = journal.Discard()
	}
	defer jnl.Close()

	pub := newPublisher(cfg)
	defer pub.Close()

	// A missing or unreadable levels directory plays as an empty level set,
	// so the session still reports and logs the absence of levels.
	lvls, err := loadLevels(cfg.LevelsDir)
	if err != nil {
		logger.Error("no level data", "dir", cfg.LevelsDir, "err", err)
		lvls = nil
	}
	if start, _ := cmd.Flags().GetInt("start"); start > 0 {
		lvls = session.FromLevel(lvls, start)
	}

	runner := session.New(lvls, session.Options{
		SessionID: sessionID,
		Matcher:   matcher.Default(),
		Executor:  executor.New(executor.NewAllowList(cfg.AllowList...), cfg.ExecTimeout),
		Execute:   cfg.Execute,
		Journal:   jnl,
		Publisher: pub,
		Logger:    logger.With("session", sessionID),
		In:        cmd.InOrStdin(),
		Out:       cmd.OutOrStdout(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runErr := runner.Run(ctx)
	res := runner.Result()
	logger.Debug("session finished", "session", sessionID, "solved", res.Solved, "total", res.Total, "quit", res.Quit)

	archiveSession(cfg, sessionID, jnl.Entries())

	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}

func applyPlayFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("levels-dir") {
		cfg.LevelsDir, _ = cmd.Flags().GetString("levels-dir")
	}
	if cmd.Flags().Changed("log-file") {
		cfg.LogFile, _ = cmd.Flags().GetString("log-file")
	}
	if noExec, _ := cmd.Flags().GetBool("no-exec"); noExec {
		cfg.Execute = false
	}
}

// loadLevelSet returns the levels from dir, or the built-in set when dir
// is empty, along with any files that failed to load.
func loadLevelSet(dir string) ([]*model.Level, []levels.Problem, error) {
	if dir == "" {
		return levels.Builtin()
	}
	return levels.LoadDir(dir)
}

// loadLevels is loadLevelSet for callers that only log problems.
func loadLevels(dir string) ([]*model.Level, error) {
	lvls, problems, err := loadLevelSet(dir)
	if err != nil {
		return nil, fmt.Errorf("loading levels: %w", err)
	}
	for _, p := range problems {
		logger.Warn("skipping level file", "file", p.File, "err", p.Err)
	}
	return lvls, nil
}

func newPublisher(cfg *config.Config) events.Publisher {
	if cfg.NATSURL == "" {
		return events.Discard
	}
	pub, err := events.NewNATSPublisher(cfg.NATSURL)
	if err != nil {
		logger.Warn("event bus unavailable, events disabled", "url", cfg.NATSURL, "err", err)
		return events.Discard
	}
	return pub
}

// archiveSession copies the transcript to the configured destinations.
// Failures are logged; the session result stands.
func archiveSession(cfg *config.Config, sessionID string, entries []model.TranscriptEntry) {
	if !cfg.ArchiveEnabled() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
	defer cancel()

	var dests []archive.Destination
	if cfg.Archive.S3Bucket != "" {
		s3dest, err := archive.NewS3Destination(ctx, cfg.Archive.S3Bucket, cfg.Archive.S3Prefix, cfg.Archive.S3Region, cfg.Archive.S3Endpoint)
		if err != nil {
			logger.Warn("s3 archive unavailable", "bucket", cfg.Archive.S3Bucket, "err", err)
		} else {
			dests = append(dests, s3dest)
		}
	}
	if cfg.Archive.GitRepo != "" {
		dests = append(dests, archive.NewGitDestination(cfg.Archive.GitRepo, cfg.Archive.GitDir, cfg.Archive.GitBranch))
	}
	if len(dests) == 0 {
		return
	}

	if err := archive.New(dests, logger).Archive(ctx, sessionID, entries); err != nil {
		logger.Warn("archiving session failed", "session", sessionID, "err", err)
	}
}
