// Package settings holds user preferences persisted in the settings slots.
package settings

import (
	"context"
	"fmt"

	"cuentas/internal/store"
)

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// DefaultTheme applies when the slot was never written or holds an unknown value.
const DefaultTheme = Light

func (t Theme) IsValid() bool {
	return t == Light || t == Dark
}

// Toggled returns the opposite theme.
func (t Theme) Toggled() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

type ThemeService struct {
	settings store.SettingsStore
}

func NewThemeService(settings store.SettingsStore) *ThemeService {
	return &ThemeService{settings: settings}
}

func (s *ThemeService) Get(ctx context.Context) (Theme, error) {
	raw, found, err := s.settings.GetSetting(ctx, store.KeyTheme)
	if err != nil {
		return "", fmt.Errorf("read theme: %w", err)
	}
	t := Theme(raw)
	if !found || !t.IsValid() {
		return DefaultTheme, nil
	}
	return t, nil
}

func (s *ThemeService) Set(ctx context.Context, t Theme) error {
	if !t.IsValid() {
		return fmt.Errorf("unknown theme %q", t)
	}
	if err := s.settings.SetSetting(ctx, store.KeyTheme, string(t)); err != nil {
		return fmt.Errorf("write theme: %w", err)
	}
	return nil
}

// Toggle flips the stored theme and returns the new value.
func (s *ThemeService) Toggle(ctx context.Context) (Theme, error) {
	cur, err := s.Get(ctx)
	if err != nil {
		return "", err
	}
	next := cur.Toggled()
	if err := s.Set(ctx, next); err != nil {
		return "", err
	}
	return next, nil
}
