package handlers

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/cufee/botto-verify/config"
	"github.com/cufee/botto-verify/database"
	"github.com/cufee/botto-verify/verify"
	"go.uber.org/zap"
)

// setupInput - Arguments of a setup command
type setupInput struct {
	GuildID   string
	ChannelID string
	RoleID    string
	Marker    string
	ImageURL  string
}

var (
	channelMention = regexp.MustCompile(`^<#(\d+)>$`)
	roleMention    = regexp.MustCompile(`^<@&(\d+)>$`)
	snowflake      = regexp.MustCompile(`^\d+$`)
)

// setupFromOptions - Read /setup options
func setupFromOptions(guildID string, data discordgo.ApplicationCommandInteractionData) setupInput {
	in := setupInput{GuildID: guildID}
	for _, opt := range data.Options {
		value, _ := opt.Value.(string)
		switch opt.Name {
		case "channel":
			in.ChannelID = value
		case "role":
			in.RoleID = value
		case "marker":
			in.Marker = strings.TrimSpace(value)
		case "image":
			if data.Resolved != nil {
				if att, ok := data.Resolved.Attachments[value]; ok && att != nil {
					in.ImageURL = att.URL
				}
			}
		}
	}
	return in
}

// setupFromArgs - Read `setup #channel @role marker words...`
func setupFromArgs(guildID string, args []string, attachments []*discordgo.MessageAttachment) (setupInput, error) {
	in := setupInput{GuildID: guildID}
	if len(args) < 3 {
		return in, errors.New("Usage: `setup #channel @role <marker>` or attach a screenshot instead of the marker.")
	}

	// Get channel
	if m := channelMention.FindStringSubmatch(args[1]); m != nil {
		in.ChannelID = m[1]
	} else if snowflake.MatchString(args[1]) {
		in.ChannelID = args[1]
	} else {
		return in, errors.New("Make sure the verification channel is a #channel mention and is the first argument after this command.")
	}

	// Get role
	if m := roleMention.FindStringSubmatch(args[2]); m != nil {
		in.RoleID = m[1]
	} else if snowflake.MatchString(args[2]) {
		in.RoleID = args[2]
	} else {
		return in, errors.New("Make sure the role you want to give is a mention and is the second argument after this command.")
	}

	in.Marker = strings.TrimSpace(strings.Join(args[3:], " "))
	for _, att := range attachments {
		if isImage(verify.Attachment{URL: att.URL, Filename: att.Filename, ContentType: att.ContentType}) {
			in.ImageURL = att.URL
			break
		}
	}
	return in, nil
}

// applySetup - Resolve the marker, store settings and post the verification message
func (b *Bot) applySetup(ctx context.Context, in setupInput) (string, error) {
	log := b.logger.With(zap.String("guild", in.GuildID), zap.String("channel", in.ChannelID))

	if in.Marker == "" && in.ImageURL != "" {
		marker, err := b.verify.MarkerFromImage(ctx, in.ImageURL)
		if err != nil {
			log.Warn("failed to derive marker", zap.Error(err))
			return "", errors.New("I could not read the marker from that image. Please provide it as text.")
		}
		in.Marker = marker
	}
	if in.Marker == "" {
		return "", errors.New("Please provide the channel name to look for, either as text or as an image.")
	}
	if utf8.RuneCountInString(in.Marker) > config.MaxMarkerLength {
		return "", fmt.Errorf("The marker can be at most %d characters long.", config.MaxMarkerLength)
	}

	gc := database.GuildConfig{
		GuildID:        in.GuildID,
		ChannelID:      in.ChannelID,
		RoleID:         in.RoleID,
		ExpectedMarker: in.Marker,
		UpdatedAt:      time.Now(),
	}
	if err := b.store.Put(gc); err != nil {
		log.Error("failed to update guild settings", zap.Error(err))
		return "", errors.New("Failed to update guild settings. Please try again later.")
	}

	_, err := b.platform.Send(in.ChannelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{setupEmbed(in.Marker)},
		Components: []discordgo.MessageComponent{verifyButton(in.GuildID)},
	})
	if err != nil {
		log.Warn("failed to post verification message", zap.Error(err))
		return "", fmt.Errorf("Settings were saved, but I could not post in <#%s>. Check my permissions in that channel.", in.ChannelID)
	}

	reply := fmt.Sprintf("%s Users must show **%s** to get <@&%s>.", msgSetupDone, in.Marker, in.RoleID)
	if b.checker != nil {
		switch err := b.checker.Check(in.GuildID, in.RoleID); {
		case errors.Is(err, verify.ErrPermission):
			reply += "\n⚠️ I am missing the **Manage Roles** permission."
		case errors.Is(err, verify.ErrHierarchy):
			reply += "\n⚠️ My role must be above the verification role."
		case err != nil:
			log.Warn("role check failed", zap.Error(err))
		}
	}
	log.Info("guild configured", zap.String("role", in.RoleID), zap.String("marker", in.Marker))
	return reply, nil
}

// setupCommand - /setup, administrators only
func (b *Bot) setupCommand(ctx context.Context, i *discordgo.Interaction, data discordgo.ApplicationCommandInteractionData) {
	if i.Member == nil || i.Member.Permissions&discordgo.PermissionAdministrator != discordgo.PermissionAdministrator {
		if err := b.platform.Respond(i, msgNotAdmin); err != nil {
			b.logger.Warn("failed to respond", zap.String("guild", i.GuildID), zap.Error(err))
		}
		return
	}

	// Reading an image can outlast the interaction deadline
	if err := b.platform.Defer(i); err != nil {
		b.logger.Warn("failed to defer setup", zap.Error(err))
		return
	}

	reply, err := b.applySetup(ctx, setupFromOptions(i.GuildID, data))
	if err != nil {
		reply = "❌ " + err.Error()
	}
	if err := b.platform.EditResponse(i, reply); err != nil {
		b.logger.Warn("failed to edit setup response", zap.Error(err))
	}
}

// verifyButtonGuild - Guild ID encoded in a Verify button
func verifyButtonGuild(customID string) (string, bool) {
	if !strings.HasPrefix(customID, config.VerifyButtonPrefix) {
		return "", false
	}
	gid := strings.TrimPrefix(customID, config.VerifyButtonPrefix)
	if !snowflake.MatchString(gid) {
		return "", false
	}
	return gid, true
}
