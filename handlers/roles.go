package handlers

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/cufee/botto-verify/verify"
)

// SessionGranter - Adds roles through a discordgo session after checking the bot can
type SessionGranter struct {
	s *discordgo.Session
}

// NewSessionGranter - Granter for a session
func NewSessionGranter(s *discordgo.Session) *SessionGranter {
	return &SessionGranter{s: s}
}

// GrantRole - Give a role to a member
func (g *SessionGranter) GrantRole(_ context.Context, guildID, userID, roleID string) error {
	if err := g.Check(guildID, roleID); err != nil {
		return err
	}
	if err := g.s.GuildMemberRoleAdd(guildID, userID, roleID); err != nil {
		return fmt.Errorf("add role: %w", err)
	}
	return nil
}

// Check - Verify the bot has Manage Roles and ranks above the role
func (g *SessionGranter) Check(guildID, roleID string) error {
	if g.s.State == nil || g.s.State.User == nil {
		return fmt.Errorf("session is not ready")
	}
	member, err := g.s.GuildMember(guildID, g.s.State.User.ID)
	if err != nil {
		return fmt.Errorf("get bot member: %w", err)
	}
	roles, err := g.s.GuildRoles(guildID)
	if err != nil {
		return fmt.Errorf("get guild roles: %w", err)
	}
	return checkRoleAccess(guildID, member.Roles, roles, roleID)
}

// checkRoleAccess - Permission and hierarchy checks on plain data
func checkRoleAccess(guildID string, botRoles []string, guildRoles []*discordgo.Role, target string) error {
	byID := make(map[string]*discordgo.Role, len(guildRoles))
	for _, r := range guildRoles {
		byID[r.ID] = r
	}

	targetRole, ok := byID[target]
	if !ok {
		return fmt.Errorf("role %s not found", target)
	}

	var perms int64
	highest := -1
	// @everyone shares the guild ID
	if everyone, ok := byID[guildID]; ok {
		perms |= everyone.Permissions
		highest = everyone.Position
	}
	for _, id := range botRoles {
		r, ok := byID[id]
		if !ok {
			continue
		}
		perms |= r.Permissions
		if r.Position > highest {
			highest = r.Position
		}
	}

	if perms&discordgo.PermissionAdministrator == 0 && perms&discordgo.PermissionManageRoles == 0 {
		return verify.ErrPermission
	}
	if targetRole.Managed || highest <= targetRole.Position {
		return verify.ErrHierarchy
	}
	return nil
}
