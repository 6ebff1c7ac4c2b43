package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/parsecv/api/internal/model"
)

// PrefsService persists per-client UI preferences in Redis. Currently the
// only entry is the theme; absence means "auto".
type PrefsService struct {
	redis *redis.Client
}

func NewPrefsService(redisClient *redis.Client) *PrefsService {
	return &PrefsService{redis: redisClient}
}

// Theme returns the persisted theme for a client, defaulting to auto.
func (s *PrefsService) Theme(ctx context.Context, clientID string) (model.Theme, error) {
	val, err := s.redis.Get(ctx, themeKey(clientID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.ThemeAuto, nil
		}
		return model.ThemeAuto, fmt.Errorf("load theme: %w", err)
	}
	theme := model.Theme(val)
	for _, t := range model.ValidThemes {
		if theme == t {
			return theme, nil
		}
	}
	return model.ThemeAuto, nil
}

// SetTheme stores the theme for a client. Written on every explicit change,
// no expiry.
func (s *PrefsService) SetTheme(ctx context.Context, clientID string, theme model.Theme) error {
	if err := s.redis.Set(ctx, themeKey(clientID), string(theme), 0).Err(); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}

func themeKey(clientID string) string {
	return fmt.Sprintf("prefs:%s:theme", clientID)
}
