package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

var errNotLoggedIn = errors.New("not logged in: run 'telugudb login --key <key>'")

type keyData struct {
	Key string `json:"key"`
}

func saveKey(path, key string) error {
	if key == "" {
		return errors.New("empty key")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(keyData{Key: key}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func readKey(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", errNotLoggedIn
		}
		return "", err
	}
	var kd keyData
	if err := json.Unmarshal(data, &kd); err != nil {
		return "", fmt.Errorf("corrupt key file %s: %w", path, err)
	}
	key := strings.TrimSpace(kd.Key)
	if key == "" {
		return "", errNotLoggedIn
	}
	return key, nil
}

func clearKey(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// adminClient returns a client carrying the cached key after checking it
// is still accepted. A rejected key is removed from disk.
func adminClient(ctx context.Context, c *Client, path string) (*Client, error) {
	key, err := readKey(path)
	if err != nil {
		return nil, err
	}

	if err := c.Verify(ctx, key); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			_ = clearKey(path)
			return nil, fmt.Errorf("cached admin key was rejected and has been removed: %w", errNotLoggedIn)
		}
		return nil, fmt.Errorf("verify admin key: %w", err)
	}
	return c.WithKey(key), nil
}
