package handlers

import (
	"context"
	"errors"

	"github.com/Necroforger/dgrouter"
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Ready - Register slash commands once the session is up
func (b *Bot) Ready(s *discordgo.Session, e *discordgo.Ready) {
	appID := b.appID
	if appID == "" {
		appID = e.User.ID
	}
	b.logger.Info("logged in",
		zap.String("user", e.User.Username),
		zap.Int("guilds", len(e.Guilds)),
		zap.String("invite", InviteURL(appID)))

	cmds, err := RegisterCommands(s, appID, b.guildID)
	if err != nil {
		b.logger.Error("failed to register commands", zap.String("guild", b.guildID), zap.Error(err))
		return
	}
	b.logger.Info("commands registered", zap.Int("count", len(cmds)), zap.String("guild", b.guildID))
}

// GuildCreate - Handle new guild joined event
func (b *Bot) GuildCreate(s *discordgo.Session, e *discordgo.GuildCreate) {
	if e.Guild == nil || e.Unavailable {
		return
	}
	_, err := b.store.Get(e.ID)
	b.logger.Debug("guild available",
		zap.String("guild", e.ID),
		zap.String("name", e.Name),
		zap.Bool("configured", err == nil))
}

// MessageCreate - DMs feed the verification flow, guild messages go to the command router
func (b *Bot) MessageCreate(ctx context.Context, s *discordgo.Session, e *discordgo.MessageCreate) {
	if e.Author == nil || e.Author.Bot {
		return
	}
	if e.GuildID == "" {
		b.HandleDM(ctx, e.Message)
		return
	}
	if s.State == nil || s.State.User == nil {
		return
	}
	err := b.router.FindAndExecute(s, b.prefix, s.State.User.ID, e.Message)
	if err != nil && !errors.Is(err, dgrouter.ErrCouldNotFindRoute) {
		b.logger.Warn("command failed", zap.String("guild", e.GuildID), zap.Error(err))
	}
}
