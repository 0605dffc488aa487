package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Necroforger/dgrouter/exrouter"
	"github.com/bwmarrin/discordgo"
	"github.com/cufee/botto-verify/database"
	"go.uber.org/zap"
)

// newRouter - Prefix commands usable in guild channels
func (b *Bot) newRouter() *exrouter.Route {
	router := exrouter.New()

	router.On("verify", b.VerifyHandler).Desc("start screenshot verification in DMs")

	router.Group(func(r *exrouter.Route) {
		r.Use(b.adminOnly)
		r.On("setup", b.SetupHandler).Desc("setup #channel @role <marker> - configure verification")
		r.On("settings", b.SettingsHandler).Desc("show the verification settings of this server")
	})
	return router
}

func (b *Bot) adminOnly(fn exrouter.HandlerFunc) exrouter.HandlerFunc {
	return func(ctx *exrouter.Context) {
		if !b.platform.IsAdmin(ctx.Msg.Author.ID, ctx.Msg.ChannelID) {
			b.reply(ctx, msgNotAdmin, 15)
			return
		}
		fn(ctx)
	}
}

// SetupHandler - !setup #channel @role marker
func (b *Bot) SetupHandler(ctx *exrouter.Context) {
	in, err := setupFromArgs(ctx.Msg.GuildID, ctx.Args, ctx.Msg.Attachments)
	if err != nil {
		b.reply(ctx, err.Error(), 15)
		return
	}
	reply, err := b.applySetup(b.ctx, in)
	if err != nil {
		b.reply(ctx, "❌ "+err.Error(), 15)
		return
	}
	b.reply(ctx, reply, 15)
}

// SettingsHandler - Show the current guild settings
func (b *Bot) SettingsHandler(ctx *exrouter.Context) {
	gc, err := b.store.Get(ctx.Msg.GuildID)
	if err != nil {
		if errors.Is(err, database.ErrNotConfigured) {
			b.reply(ctx, "This server is not configured yet. Try `"+b.prefix+"setup`.", 15)
			return
		}
		b.logger.Error("failed to get guild settings", zap.String("guild", ctx.Msg.GuildID), zap.Error(err))
		b.reply(ctx, fmt.Sprintf("An error occured while fetching guild settings.\n```%v```", err), 15)
		return
	}
	b.reply(ctx, formatSettings(gc, b.verify.Pending()), 30)
}

// VerifyHandler - !verify, same as pressing the Verify button
func (b *Bot) VerifyHandler(ctx *exrouter.Context) {
	user := ctx.Msg.Author
	v, err := b.verify.Begin(user.ID, ctx.Msg.GuildID)
	if err != nil {
		b.reply(ctx, beginError(err), 15)
		return
	}
	err = b.platform.SendDM(user.ID, &discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{promptEmbed(v.ExpectedMarker)}})
	if err != nil {
		b.verify.Cancel(user.ID)
		b.reply(ctx, msgDMClosed, 15)
		return
	}
	b.reply(ctx, msgDMSent, 15)
}

func formatSettings(gc database.GuildConfig, pending int) string {
	var sb strings.Builder
	sb.WriteString("**Verification settings**\n")
	sb.WriteString(fmt.Sprintf("Channel: <#%s>\n", gc.ChannelID))
	sb.WriteString(fmt.Sprintf("Role: <@&%s>\n", gc.RoleID))
	sb.WriteString(fmt.Sprintf("Marker: `%s`\n", gc.ExpectedMarker))
	if !gc.UpdatedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("Updated: <t:%d:R>\n", gc.UpdatedAt.Unix()))
	}
	sb.WriteString(fmt.Sprintf("Users awaiting a screenshot (all servers): %d", pending))
	return sb.String()
}
