package handlers

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/cufee/botto-verify/config"
)

var adminPerms int64 = discordgo.PermissionAdministrator

// Commands - Slash commands registered by the bot
var Commands = []*discordgo.ApplicationCommand{
	{
		Name:                     "setup",
		Description:              "Setup verification system",
		DefaultMemberPermissions: &adminPerms,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:         discordgo.ApplicationCommandOptionChannel,
				Name:         "channel",
				Description:  "Where the verification embed will be posted",
				ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
				Required:     true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionRole,
				Name:        "role",
				Description: "Role to give after verification",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "marker",
				Description: "Channel name or keyword that must appear in screenshots",
			},
			{
				Type:        discordgo.ApplicationCommandOptionAttachment,
				Name:        "image",
				Description: "Screenshot to read the marker from, used when no marker is given",
			},
		},
	},
	{
		Name:        "verify",
		Description: "Start screenshot verification",
	},
}

// RegisterCommands - Overwrite the bot's slash commands, globally or for one guild
func RegisterCommands(s *discordgo.Session, appID, guildID string) ([]*discordgo.ApplicationCommand, error) {
	return s.ApplicationCommandBulkOverwrite(appID, guildID, Commands)
}

// InviteURL - OAuth2 link adding the bot with the permissions it needs
func InviteURL(appID string) string {
	return fmt.Sprintf("https://discord.com/oauth2/authorize?client_id=%s&permissions=%d&scope=bot%%20applications.commands", appID, config.PermsCode)
}
