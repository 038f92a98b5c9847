package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Load reads configuration from an optional YAML file and the environment.
// Every key can be overridden via env vars with dots replaced by
// underscores, e.g. PODAPI_TOKEN, MYSQL_HOST, SYNC_DRY_RUN.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && path != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("podapi.baseurl", "https://api.printful.com")
	v.SetDefault("podapi.timeout", 20*time.Second)
	v.SetDefault("podapi.retryattempts", 3)
	v.SetDefault("podapi.pagelimit", 100)
	v.SetDefault("podapi.maxpages", 50)

	v.SetDefault("mysql.port", 3306)

	v.SetDefault("sync.dryrun", true)
	v.SetDefault("sync.onlyactive", true)
	v.SetDefault("sync.onlywarehouse", false)
	v.SetDefault("sync.markuppercent", 0)
	v.SetDefault("sync.currencyid", 1)
	v.SetDefault("sync.variantfield", "pod_variant_id")
	v.SetDefault("sync.colorfield", "Color")
	v.SetDefault("sync.sizefield", "Size")
	v.SetDefault("sync.attributegroup", "Variant Attributes")
	v.SetDefault("sync.deactivateobsoletevalues", true)
	v.SetDefault("sync.imagedir", "images/pod")
	v.SetDefault("sync.locale", "en_gb")
	v.SetDefault("sync.itemdelay", 300*time.Millisecond)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.readtimeout", 15*time.Second)
	v.SetDefault("server.writetimeout", 120*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.production", false)
}

// PageLimitClamped returns the configured page size bounded to the remote
// API's accepted range.
func (c PodAPIConfig) PageLimitClamped() int {
	limit := c.PageLimit
	if limit < 1 {
		limit = 1
	}
	if limit > 200 {
		limit = 200
	}
	return limit
}

// MaxPagesClamped bounds the page-count safety cap to [1,500].
func (c PodAPIConfig) MaxPagesClamped() int {
	pages := c.MaxPages
	if pages < 1 {
		pages = 1
	}
	if pages > 500 {
		pages = 500
	}
	return pages
}
