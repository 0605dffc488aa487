package handlers

import (
	"context"

	"github.com/Necroforger/dgrouter/exrouter"
	"github.com/bwmarrin/discordgo"
	"github.com/cufee/botto-verify/database"
	"github.com/cufee/botto-verify/verify"
	"go.uber.org/zap"
)

// RoleChecker - Reports whether the bot could grant a role
type RoleChecker interface {
	Check(guildID, roleID string) error
}

// Deps - Dependencies of the bot handlers
type Deps struct {
	Platform Platform
	Store    database.Store
	Verify   *verify.Service
	Checker  RoleChecker
	Logger   *zap.Logger
	Prefix   string
	AppID    string
	GuildID  string
}

// Bot - Routes Discord events to the verification flow
type Bot struct {
	platform Platform
	store    database.Store
	verify   *verify.Service
	checker  RoleChecker
	logger   *zap.Logger
	prefix   string
	appID    string
	guildID  string
	router   *exrouter.Route
	reply    replyFunc
	// ctx bounds work started from prefix commands, set by Register
	ctx context.Context
}

// New - Create the bot handlers
func New(d Deps) *Bot {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Bot{
		platform: d.Platform,
		store:    d.Store,
		verify:   d.Verify,
		checker:  d.Checker,
		logger:   logger,
		prefix:   d.Prefix,
		appID:    d.AppID,
		guildID:  d.GuildID,
		ctx:      context.Background(),
		reply:    replyDel,
	}
	b.router = b.newRouter()
	return b
}

// Register - Attach event handlers to a session
func (b *Bot) Register(ctx context.Context, s *discordgo.Session) {
	b.ctx = ctx
	s.AddHandler(func(s *discordgo.Session, e *discordgo.Ready) {
		b.Ready(s, e)
	})
	s.AddHandler(func(s *discordgo.Session, e *discordgo.GuildCreate) {
		b.GuildCreate(s, e)
	})
	s.AddHandler(func(s *discordgo.Session, e *discordgo.InteractionCreate) {
		b.HandleInteraction(ctx, e.Interaction)
	})
	s.AddHandler(func(s *discordgo.Session, e *discordgo.MessageCreate) {
		b.MessageCreate(ctx, s, e)
	})
}

// HandleInteraction - Route slash commands and button presses
func (b *Bot) HandleInteraction(ctx context.Context, i *discordgo.Interaction) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		switch data.Name {
		case "setup":
			b.setupCommand(ctx, i, data)
		case "verify":
			b.beginVerification(i, i.GuildID)
		}
	case discordgo.InteractionMessageComponent:
		if gid, ok := verifyButtonGuild(i.MessageComponentData().CustomID); ok {
			b.beginVerification(i, gid)
		}
	}
}

// beginVerification - Start the flow for the interaction user and DM instructions
func (b *Bot) beginVerification(i *discordgo.Interaction, guildID string) {
	user := interactionUser(i)
	if user == nil {
		return
	}
	log := b.logger.With(zap.String("user", user.ID), zap.String("guild", guildID))

	v, err := b.verify.Begin(user.ID, guildID)
	if err != nil {
		if err := b.platform.Respond(i, beginError(err)); err != nil {
			log.Warn("failed to respond", zap.Error(err))
		}
		return
	}

	err = b.platform.SendDM(user.ID, &discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{promptEmbed(v.ExpectedMarker)}})
	if err != nil {
		// DMs closed, the user could never submit
		b.verify.Cancel(user.ID)
		log.Info("failed to DM user", zap.Error(err))
		if err := b.platform.Respond(i, msgDMClosed); err != nil {
			log.Warn("failed to respond", zap.Error(err))
		}
		return
	}

	if err := b.platform.Respond(i, msgDMSent); err != nil {
		log.Warn("failed to respond", zap.Error(err))
	}
}

// HandleDM - Treat a DM from a user with a pending verification as a submission
func (b *Bot) HandleDM(ctx context.Context, m *discordgo.Message) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if !b.verify.Awaiting(m.Author.ID) {
		return
	}

	sub := verify.Submission{UserID: m.Author.ID}
	hasImage := false
	for _, att := range m.Attachments {
		a := verify.Attachment{URL: att.URL, Filename: att.Filename, ContentType: att.ContentType}
		sub.Attachments = append(sub.Attachments, a)
		if isImage(a) {
			hasImage = true
		}
	}

	ref := m.Reference()
	if hasImage {
		_, err := b.platform.Send(m.ChannelID, &discordgo.MessageSend{
			Embeds:    []*discordgo.MessageEmbed{processingEmbed()},
			Reference: ref,
		})
		if err != nil {
			b.logger.Warn("failed to send processing notice", zap.String("user", m.Author.ID), zap.Error(err))
		}
	}

	res := b.verify.Submit(ctx, sub)
	reply := renderResult(res)
	if reply == "" {
		return
	}
	if _, err := b.platform.Send(m.ChannelID, &discordgo.MessageSend{Content: reply, Reference: ref}); err != nil {
		b.logger.Warn("failed to send result",
			zap.String("user", m.Author.ID),
			zap.String("outcome", res.Outcome.String()),
			zap.Error(err))
	}
}

func interactionUser(i *discordgo.Interaction) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}
