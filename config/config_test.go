package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	cfg := fromViper(viper.New())

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "production", cfg.App.Env)
	assert.Equal(t, 5*time.Second, cfg.Directory.Timeout)
	assert.Equal(t, 1, cfg.Directory.MaxRetries)
	assert.Equal(t, 5*time.Second, cfg.Classifier.Timeout)
	assert.Equal(t, 1, cfg.Classifier.MaxRetries)
	assert.Equal(t, "none", cfg.Video.Provider)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiry)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshExpiry)
	assert.Equal(t, "https://oauth2.googleapis.com/tokeninfo", cfg.Identity.TokenInfoURL)
	assert.Equal(t, float64(2), cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 5, cfg.RateLimit.Burst)
	assert.Empty(t, cfg.Admin.AllowedEmails)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	v.Set("DIRECTORY_URL", "https://db.example/doctors.json")
	v.Set("DIRECTORY_TIMEOUT", "2s")
	v.Set("DIRECTORY_MAX_RETRIES", "0")
	v.Set("CLASSIFIER_TIMEOUT", "not-a-duration")
	v.Set("ADMIN_ALLOWED_EMAILS", " a@clinic.example, ,b@clinic.example ")
	v.Set("VIDEO_PROVIDER", "token")

	cfg := fromViper(v)

	assert.Equal(t, "https://db.example/doctors.json", cfg.Directory.URL)
	assert.Equal(t, 2*time.Second, cfg.Directory.Timeout)
	assert.Equal(t, 0, cfg.Directory.MaxRetries)
	assert.Equal(t, 5*time.Second, cfg.Classifier.Timeout)
	assert.Equal(t, []string{"a@clinic.example", "b@clinic.example"}, cfg.Admin.AllowedEmails)
	assert.Equal(t, "token", cfg.Video.Provider)
}
