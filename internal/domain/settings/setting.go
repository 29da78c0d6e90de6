package settings

import (
	"context"
	"strings"
	"time"
)

// Well-known setting keys
const (
	KeyAppName        = "app_name"
	KeySupportEmail   = "support_email"
	KeyAssetTagPrefix = "asset_tag_prefix"
)

// Defaults applied when a key has never been written
const (
	DefaultAppName        = "IT Inventory"
	DefaultAssetTagPrefix = "ESS-"
)

// Setting is a persisted key/value application setting
type Setting struct {
	Key       string `gorm:"type:varchar(100);primaryKey"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (Setting) TableName() string {
	return "settings"
}

// NormalizeTagPrefix ensures an asset tag prefix ends with a dash
func NormalizeTagPrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return DefaultAssetTagPrefix
	}
	if !strings.HasSuffix(prefix, "-") {
		prefix += "-"
	}
	return prefix
}

// Repository defines persistence operations for settings
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	GetOrDefault(ctx context.Context, key, fallback string) (string, error)
	Set(ctx context.Context, key, value string) error
	All(ctx context.Context) (map[string]string, error)
}
