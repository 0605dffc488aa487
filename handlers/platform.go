package handlers

import (
	"github.com/bwmarrin/discordgo"
)

// Platform - Discord calls made by the handlers
type Platform interface {
	// Respond answers an interaction with an ephemeral message
	Respond(i *discordgo.Interaction, content string) error
	// Defer acknowledges an interaction, the answer follows with EditResponse
	Defer(i *discordgo.Interaction) error
	EditResponse(i *discordgo.Interaction, content string) error
	Send(channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error)
	SendDM(userID string, msg *discordgo.MessageSend) error
	IsAdmin(userID, channelID string) bool
}

// SessionPlatform - Platform backed by a discordgo session
type SessionPlatform struct {
	s *discordgo.Session
}

// NewSessionPlatform - Wrap a session
func NewSessionPlatform(s *discordgo.Session) *SessionPlatform {
	return &SessionPlatform{s: s}
}

// Respond - Ephemeral interaction reply
func (p *SessionPlatform) Respond(i *discordgo.Interaction, content string) error {
	return p.s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// Defer - Ephemeral "thinking" reply
func (p *SessionPlatform) Defer(i *discordgo.Interaction) error {
	return p.s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
}

// EditResponse - Replace a deferred reply
func (p *SessionPlatform) EditResponse(i *discordgo.Interaction, content string) error {
	_, err := p.s.InteractionResponseEdit(i, &discordgo.WebhookEdit{Content: &content})
	return err
}

// Send - Send a message to a channel
func (p *SessionPlatform) Send(channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	return p.s.ChannelMessageSendComplex(channelID, msg)
}

// SendDM - Send a message to a user's DM channel
func (p *SessionPlatform) SendDM(userID string, msg *discordgo.MessageSend) error {
	dmChan, err := p.s.UserChannelCreate(userID)
	if err != nil {
		return err
	}
	_, err = p.s.ChannelMessageSendComplex(dmChan.ID, msg)
	return err
}

// IsAdmin - Check if a user has Administrator in a channel
func (p *SessionPlatform) IsAdmin(userID, channelID string) bool {
	perms, err := p.s.UserChannelPermissions(userID, channelID)
	if err != nil {
		return false
	}
	return perms&discordgo.PermissionAdministrator == discordgo.PermissionAdministrator
}
