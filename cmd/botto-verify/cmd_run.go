package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/cufee/botto-verify/config"
	"github.com/cufee/botto-verify/database"
	"github.com/cufee/botto-verify/handlers"
	"github.com/cufee/botto-verify/keepalive"
	"github.com/cufee/botto-verify/media"
	"github.com/cufee/botto-verify/oracle"
	"github.com/cufee/botto-verify/pending"
	"github.com/cufee/botto-verify/verify"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// sweepInterval is how often expired verifications are dropped
const sweepInterval = time.Minute

// runCmd starts the bot
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Connect to Discord and serve verifications",
	RunE:  runBot,
}

func runBot(cmd *cobra.Command, _ []string) (err error) {
	if err := cfg.RequireDiscord(); err != nil {
		return err
	}
	if err := cfg.RequireOracle(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var closers []func() error
	defer func() {
		var result *multierror.Error
		for i := len(closers) - 1; i >= 0; i-- {
			if cerr := closers[i](); cerr != nil {
				result = multierror.Append(result, cerr)
			}
		}
		if cerr := result.ErrorOrNil(); cerr != nil {
			logger.Error("shutdown finished with errors", zap.Error(cerr))
			if err == nil {
				err = cerr
			}
		}
	}()

	store, err := database.Open(cfg.SettingsBackend, settingsPath(cfg))
	if err != nil {
		return fmt.Errorf("open settings: %w", err)
	}
	closers = append(closers, store.Close)

	if fs, ok := store.(*database.FileStore); ok && cfg.WatchSettings {
		watcher, err := database.NewWatcher(fs, logger)
		if err != nil {
			return fmt.Errorf("watch settings: %w", err)
		}
		watcher.Start(ctx)
		closers = append(closers, watcher.Stop)
	}

	ex, err := oracle.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("build oracle: %w", err)
	}

	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	granter := handlers.NewSessionGranter(s)
	svc := verify.NewService(verify.Deps{
		Pending:   pending.New(cfg.PendingTTL),
		Guilds:    store,
		Fetcher:   media.NewFetcher(cfg.FetchTimeout, cfg.MaxImageBytes),
		Oracle:    ex,
		Granter:   granter,
		Logger:    logger,
		PerMinute: cfg.VerifyPerMinute,
		Burst:     cfg.VerifyBurst,
	})

	bot := handlers.New(handlers.Deps{
		Platform: handlers.NewSessionPlatform(s),
		Store:    store,
		Verify:   svc,
		Checker:  granter,
		Logger:   logger,
		Prefix:   cfg.Prefix,
		AppID:    cfg.AppID,
		GuildID:  cfg.GuildID,
	})
	bot.Register(ctx, s)

	if err := s.Open(); err != nil {
		return fmt.Errorf("open gateway: %w", err)
	}
	closers = append(closers, s.Close)
	logger.Info("bot is running",
		zap.String("oracle", ex.Name()),
		zap.String("settings", cfg.SettingsBackend))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return svc.Run(gctx, sweepInterval)
	})
	if cfg.KeepAlive {
		srv := keepalive.New(":"+cfg.Port, sessionStats{s: s, svc: svc}, logger)
		g.Go(func() error {
			return srv.Run(gctx)
		})
	}

	err = g.Wait()
	logger.Info("shutting down")
	return err
}

func settingsPath(c *config.Config) string {
	if c.SettingsBackend == config.SettingsBolt {
		return c.BoltPath
	}
	return c.SettingsPath
}

// sessionStats - Health counters read from the gateway state
type sessionStats struct {
	s   *discordgo.Session
	svc *verify.Service
}

func (st sessionStats) Guilds() int {
	if st.s.State == nil {
		return 0
	}
	st.s.State.RLock()
	defer st.s.State.RUnlock()
	return len(st.s.State.Guilds)
}

func (st sessionStats) Pending() int {
	return st.svc.Pending()
}

var _ keepalive.Stats = sessionStats{}
