package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// GameRef remembers the last remote game so follow-up commands can omit
// the id.
type GameRef struct {
	GameID  string `json:"game_id"`
	BaseURL string `json:"base_url"`
}

func baseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".finopoly")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

func gameRefPath() (string, error) {
	dir, err := baseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "game.json"), nil
}

func SaveGameRef(ref GameRef) error {
	path, err := gameRefPath()
	if err != nil {
		return err
	}
	body, err := json.MarshalIndent(ref, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, body, 0o600); err != nil {
		return err
	}
	return nil
}

func LoadGameRef() (GameRef, error) {
	path, err := gameRefPath()
	if err != nil {
		return GameRef{}, err
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return GameRef{}, err
	}
	var ref GameRef
	if err := json.Unmarshal(body, &ref); err != nil {
		return GameRef{}, err
	}
	if strings.TrimSpace(ref.GameID) == "" {
		return GameRef{}, fmt.Errorf("no game id found, start one with 'finopoly new'")
	}
	return ref, nil
}

func ClearGameRef() error {
	path, err := gameRefPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return os.Remove(path)
}
