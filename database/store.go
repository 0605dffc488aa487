package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cufee/botto-verify/config"
	"github.com/go-playground/validator/v10"
)

// ErrNotConfigured - Guild has no verification settings
var ErrNotConfigured = errors.New("guild is not configured")

// Store - Guild settings persistence
type Store interface {
	Get(guildID string) (GuildConfig, error)
	Put(gc GuildConfig) error
	List() ([]GuildConfig, error)
	Close() error
}

var validate = validator.New()

// Validate - Check a guild config before it is stored
func Validate(gc GuildConfig) error {
	if err := validate.Struct(gc); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return err
		}
		var msgs []string
		for _, fe := range ve {
			msgs = append(msgs, fmt.Sprintf("field '%s' failed '%s'", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("invalid guild config: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// Open - Open the settings store for a backend
func Open(backend, path string) (Store, error) {
	switch backend {
	case config.SettingsFile:
		return OpenFile(path)
	case config.SettingsBolt:
		return OpenBolt(path)
	default:
		return nil, fmt.Errorf("unknown settings backend %q", backend)
	}
}
