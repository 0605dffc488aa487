package database

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(gid string) GuildConfig {
	return GuildConfig{
		GuildID:        gid,
		ChannelID:      "200000000000000001",
		RoleID:         "300000000000000001",
		ExpectedMarker: "Glitch Ninja",
	}
}

func TestOpenFile_CreatesEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s, err := OpenFile(path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}", strings.TrimSpace(string(data)))

	list, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFileStore_PutGetAndPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s, err := OpenFile(path)
	require.NoError(t, err)

	require.NoError(t, s.Put(testConfig("100000000000000001")))

	gc, err := s.Get("100000000000000001")
	require.NoError(t, err)
	assert.Equal(t, "Glitch Ninja", gc.ExpectedMarker)
	assert.False(t, gc.UpdatedAt.IsZero())

	// File is pretty-printed and keyed by guild ID
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"100000000000000001\": {")
	var raw map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "300000000000000001", raw["100000000000000001"]["roleId"])

	// Survives reopen
	s2, err := OpenFile(path)
	require.NoError(t, err)
	gc2, err := s2.Get("100000000000000001")
	require.NoError(t, err)
	assert.Equal(t, "100000000000000001", gc2.GuildID)
	assert.Equal(t, "200000000000000001", gc2.ChannelID)
}

func TestFileStore_PutOverwrites(t *testing.T) {
	s, err := OpenFile(filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)

	require.NoError(t, s.Put(testConfig("1")))
	next := testConfig("1")
	next.ExpectedMarker = "Other Channel"
	require.NoError(t, s.Put(next))

	gc, err := s.Get("1")
	require.NoError(t, err)
	assert.Equal(t, "Other Channel", gc.ExpectedMarker)

	list, err := s.List()
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestFileStore_GetMissing(t *testing.T) {
	s, err := OpenFile(filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)

	_, err = s.Get("404")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestFileStore_PutRejectsInvalid(t *testing.T) {
	s, err := OpenFile(filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)

	bad := testConfig("1")
	bad.ExpectedMarker = ""
	assert.Error(t, s.Put(bad))

	bad = testConfig("1")
	bad.RoleID = "<@&123>"
	assert.Error(t, s.Put(bad))

	_, err = s.Get("1")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestFileStore_ReadsLegacyYoutubeName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	legacy := `{"42": {"channelId": "7", "roleId": "8", "youtubeName": "Glitch Ninja"}}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0600))

	s, err := OpenFile(path)
	require.NoError(t, err)
	gc, err := s.Get("42")
	require.NoError(t, err)
	assert.Equal(t, "Glitch Ninja", gc.ExpectedMarker)
	assert.Equal(t, "42", gc.GuildID)
}

func TestFileStore_ReloadPicksUpExternalEdits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s, err := OpenFile(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{"9": {"channelId": "1", "roleId": "2", "expectedMarker": "edited"}}`), 0600))
	require.NoError(t, s.Reload())

	gc, err := s.Get("9")
	require.NoError(t, err)
	assert.Equal(t, "edited", gc.ExpectedMarker)
}

func TestFileStore_ReloadKeepsStateOnBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(testConfig("1")))

	require.NoError(t, os.WriteFile(path, []byte(`{"1": `), 0600))
	assert.Error(t, s.Reload())

	_, err = s.Get("1")
	assert.NoError(t, err)
}
