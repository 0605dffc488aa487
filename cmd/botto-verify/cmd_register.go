package main

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/cufee/botto-verify/handlers"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// registerCommandsCmd deploys slash commands without starting the bot
var registerCommandsCmd = &cobra.Command{
	Use:   "register-commands",
	Short: "Overwrite the bot's slash commands",
	Long: `Overwrite the bot's slash commands once and exit.

Commands go to DISCORD_GUILD_ID when it is set (instant, for development) and
are registered globally otherwise.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.RequireDiscord(); err != nil {
			return err
		}
		s, err := discordgo.New("Bot " + cfg.Token)
		if err != nil {
			return fmt.Errorf("create session: %w", err)
		}

		appID := cfg.AppID
		if appID == "" {
			me, err := s.User("@me")
			if err != nil {
				return fmt.Errorf("look up application id: %w", err)
			}
			appID = me.ID
		}

		cmds, err := handlers.RegisterCommands(s, appID, cfg.GuildID)
		if err != nil {
			return fmt.Errorf("register commands: %w", err)
		}
		for _, c := range cmds {
			logger.Info("registered command", zap.String("name", c.Name), zap.String("id", c.ID))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Registered %d commands\n", len(cmds))
		return nil
	},
}
