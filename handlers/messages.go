package handlers

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/cufee/botto-verify/config"
	"github.com/cufee/botto-verify/database"
	"github.com/cufee/botto-verify/verify"
)

// User facing text
const (
	msgNotConfigured = "❌ Server is not configured."
	msgNotAdmin      = "❌ You must be an Administrator."
	msgDMSent        = "📩 I have sent you a DM."
	msgDMClosed      = "❌ I could not DM you. Please allow direct messages from server members and try again."
	msgThrottled     = "⏳ You are starting verification too often. Please wait a minute and try again."
	msgNeedImage     = "⚠️ Please upload an image screenshot."
	msgReadFailed    = "⚠️ Could not read your screenshot.\nPlease press **Verify** again and upload a clearer screenshot."
	msgGrantFailed   = "⚠️ Your screenshot was accepted, but I could not give you the role. Please contact a server administrator."
	msgNoPermission  = "⚠️ Your screenshot was accepted, but I am missing the **Manage Roles** permission. Please ask a server administrator to fix my permissions."
	msgHierarchy     = "⚠️ Your screenshot was accepted, but my role is below the verification role. Please ask a server administrator to move my role higher."
	msgSetupDone     = "✅ Setup completed."
	msgInternal      = "❌ Something went wrong, please try again later."
)

func setupEmbed(marker string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🛡️ Server Verification",
		Description: fmt.Sprintf("Please verify your subscription to **%s**.\n\nClick **Verify** below to continue in DM.", marker),
		Color:       config.ColorSetup,
		Footer:      &discordgo.MessageEmbedFooter{Text: config.EmbedFooter},
	}
}

func verifyButton(guildID string) discordgo.MessageComponent {
	return discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "Verify",
				Style:    discordgo.SuccessButton,
				CustomID: config.VerifyButtonPrefix + guildID,
				Emoji:    &discordgo.ComponentEmoji{Name: "🔒"},
			},
		},
	}
}

func promptEmbed(marker string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "📸 Subscription Verification",
		Description: fmt.Sprintf("Please upload a **clear screenshot** showing you are subscribed to **%s**.", marker),
		Color:       config.ColorPrompt,
	}
}

func processingEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "📸 Verifying Screenshot",
		Description: "⚙️ Processing your screenshot...\n" +
			"🔍 Checking your subscription...\n" +
			"⏳ This may take a few moments.",
		Color: config.ColorProcessing,
	}
}

// renderResult - Message sent back to the user for a submission
func renderResult(res verify.Result) string {
	marker := res.Verification.ExpectedMarker
	switch res.Outcome {
	case verify.OutcomeVerified:
		return fmt.Sprintf("✅ Verification successful! You are subscribed to **%s**.", marker)
	case verify.OutcomeRejected:
		return fmt.Sprintf("❌ You have not subscribed to **%s**.\nPress **Verify** again to retry.", marker)
	case verify.OutcomeNeedImage:
		return msgNeedImage
	case verify.OutcomeReadFailed:
		return msgReadFailed
	case verify.OutcomeGrantFailed:
		switch {
		case errors.Is(res.Err, verify.ErrPermission):
			return msgNoPermission
		case errors.Is(res.Err, verify.ErrHierarchy):
			return msgHierarchy
		}
		return msgGrantFailed
	default:
		return ""
	}
}

// beginError - Message for a failed verification start
func beginError(err error) string {
	switch {
	case errors.Is(err, database.ErrNotConfigured):
		return msgNotConfigured
	case errors.Is(err, verify.ErrThrottled):
		return msgThrottled
	default:
		return msgInternal
	}
}
