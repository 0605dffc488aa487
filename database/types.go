package database

import (
	"encoding/json"
	"time"
)

// GuildConfig - Verification settings for a guild
type GuildConfig struct {
	GuildID        string    `json:"-" validate:"required,numeric"`
	ChannelID      string    `json:"channelId" validate:"required,numeric"`
	RoleID         string    `json:"roleId" validate:"required,numeric"`
	ExpectedMarker string    `json:"expectedMarker" validate:"required,max=100"`
	UpdatedAt      time.Time `json:"updatedAt,omitempty"`
}

// UnmarshalJSON - Accept the legacy youtubeName key as the marker
func (gc *GuildConfig) UnmarshalJSON(data []byte) error {
	type plain GuildConfig
	var raw struct {
		plain
		YoutubeName string `json:"youtubeName"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*gc = GuildConfig(raw.plain)
	if gc.ExpectedMarker == "" {
		gc.ExpectedMarker = raw.YoutubeName
	}
	return nil
}
