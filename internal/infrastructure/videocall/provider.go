// Package videocall selects the video-call capability at startup: a provider
// that signs room tokens for the client SDK, or a no-op stand-in when the
// SDK is not configured.
package videocall

import (
	"strings"

	"telehealth-directory/config"
	"telehealth-directory/internal/domain/gateway"

	"github.com/sirupsen/logrus"
)

const (
	ProviderToken = "token"
	ProviderNone  = "none"
)

// New picks the provider named in cfg. A token provider without credentials
// falls back to the no-op provider.
func New(cfg config.VideoConfig, log *logrus.Logger) gateway.VideoCallProvider {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ProviderToken:
		if cfg.AppID == "" || cfg.AppSecret == "" {
			log.Warn("Video provider credentials missing, video calling disabled")
			return NewNoopProvider()
		}
		return NewTokenProvider(cfg.AppID, cfg.AppSecret, cfg.TokenTTL)
	default:
		return NewNoopProvider()
	}
}
