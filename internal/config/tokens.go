package config

import (
	"maps"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// TokenStore holds the live style tokens. It is read on the game goroutine
// and replaced from viper's watcher goroutine.
type TokenStore struct {
	mu     sync.RWMutex
	tokens map[string]string
}

func NewTokenStore(tokens map[string]string) *TokenStore {
	s := &TokenStore{}
	s.Replace(tokens)
	return s
}

func (s *TokenStore) Lookup(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.tokens[name]
	return v, ok
}

// Replace swaps in a new token set.
func (s *TokenStore) Replace(tokens map[string]string) {
	next := normalizeTokens(tokens)
	s.mu.Lock()
	s.tokens = next
	s.mu.Unlock()
}

// Snapshot copies the current tokens.
func (s *TokenStore) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.tokens)
}

// WatchTokens refreshes store whenever viper sees the config file change.
// Only the style section is applied live.
func WatchTokens(v *viper.Viper, store *TokenStore, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		store.Replace(StyleTokens(v))
		log.Info("style tokens reloaded", zap.String("file", e.Name), zap.Stringer("op", e.Op))
	})
	if v.ConfigFileUsed() == "" {
		log.Debug("no config file to watch")
		return
	}
	v.WatchConfig()
}

// StyleTokens collects the style section, defaults included.
func StyleTokens(v *viper.Viper) map[string]string {
	out := make(map[string]string)
	for _, key := range v.AllKeys() {
		if name, ok := strings.CutPrefix(key, "style."); ok {
			out[name] = v.GetString(key)
		}
	}
	return out
}
