package config

import "time"

type Config struct {
	PodAPI PodAPIConfig
	Mysql  MysqlConfig
	Sync   SyncConfig
	Server ServerConfig
	Log    LogConfig
}

// PodAPIConfig describes the remote print-on-demand catalog API.
type PodAPIConfig struct {
	BaseURL         string
	Token           string
	UseAccountToken bool
	StoreID         string
	Language        string
	Timeout         time.Duration
	RetryAttempts   int
	PageLimit       int
	MaxPages        int
}

type MysqlConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Database string
}

// SyncConfig controls the reconciliation pipeline.
type SyncConfig struct {
	DryRun                   bool
	OnlyActive               bool
	OnlyWarehouse            bool
	MarkupPercent            float64
	DefaultCategoryID        int64
	CurrencyID               int64
	VariantField             string
	ColorField               string
	SizeField                string
	AttributeGroup           string
	DeactivateObsoleteValues bool
	ImageDir                 string
	Locale                   string
	ItemDelay                time.Duration
}

type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LogConfig struct {
	Level      string
	Production bool
}
