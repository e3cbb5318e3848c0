package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// CatalogConfig carries pricing policy that operators may tune without a
// redeploy. It is loaded from catalog.yml and hot-reloaded on change.
type CatalogConfig struct {
	// EnforceWindowOrder rejects price windows with start_date > end_date.
	// The historical behavior accepts them, so this defaults to off.
	EnforceWindowOrder bool `mapstructure:"enforceWindowOrder"`
	// MaxPageSize caps list endpoint page sizes.
	MaxPageSize int `mapstructure:"maxPageSize"`
}

func DefaultCatalogConfig() CatalogConfig {
	return CatalogConfig{
		EnforceWindowOrder: false,
		MaxPageSize:        250,
	}
}

type CatalogConfigHolder struct {
	current atomic.Value // holds CatalogConfig
}

func NewCatalogConfigHolder() (*CatalogConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("catalog")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/pricebook/config")
	v.AddConfigPath("/etc/pricebook")
	v.AddConfigPath(".")

	v.SetEnvPrefix("PRICEBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		defaults := DefaultCatalogConfig()
		v.SetDefault("catalog.enforceWindowOrder", defaults.EnforceWindowOrder)
		v.SetDefault("catalog.maxPageSize", defaults.MaxPageSize)
	}

	holder := &CatalogConfigHolder{}
	if err := holder.reload(v); err != nil {
		return nil, err
	}

	v.OnConfigChange(func(_ fsnotify.Event) {
		if err := holder.reload(v); err != nil {
			log.Printf("catalog config reload failed: %v", err)
		}
	})
	v.WatchConfig()

	return holder, nil
}

func (h *CatalogConfigHolder) reload(v *viper.Viper) error {
	var cfg CatalogConfig
	if err := v.UnmarshalKey("catalog", &cfg); err != nil {
		return err
	}
	cfg = normalizeCatalogConfig(cfg)
	h.current.Store(cfg)
	return nil
}

// Current returns the active catalog configuration.
func (h *CatalogConfigHolder) Current() CatalogConfig {
	if h == nil {
		return DefaultCatalogConfig()
	}
	if cfg, ok := h.current.Load().(CatalogConfig); ok {
		return cfg
	}
	return DefaultCatalogConfig()
}

// Store replaces the active configuration. Used by tests.
func (h *CatalogConfigHolder) Store(cfg CatalogConfig) {
	h.current.Store(normalizeCatalogConfig(cfg))
}

func normalizeCatalogConfig(cfg CatalogConfig) CatalogConfig {
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = DefaultCatalogConfig().MaxPageSize
	}
	return cfg
}
