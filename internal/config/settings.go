package config

import (
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// CompanySettings is the issuer block printed on rendered invoices.
// It can be edited in faktura.yml without restarting the service.
type CompanySettings struct {
	Name     string
	Address  string
	TaxID    string
	Currency string
}

type SettingsHolder struct {
	current atomic.Value // holds CompanySettings
}

// NewSettingsHolder loads company settings from faktura.yml, falling
// back to the environment config, and hot-reloads on file change.
func NewSettingsHolder(cfg Config) (*SettingsHolder, error) {
	v := viper.New()

	v.SetConfigName("faktura")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/faktura")
	v.AddConfigPath(".")

	v.SetEnvPrefix("FAKTURA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("company.name", cfg.Company.Name)
	v.SetDefault("company.address", cfg.Company.Address)
	v.SetDefault("company.taxId", cfg.Company.TaxID)
	v.SetDefault("company.currency", cfg.Currency)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	holder := &SettingsHolder{}

	var settings CompanySettings
	if err := v.UnmarshalKey("company", &settings); err != nil {
		return nil, err
	}
	holder.current.Store(settings)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated CompanySettings
		if err := v.UnmarshalKey("company", &updated); err != nil {
			log.Printf("[settings] reload failed: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[settings] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticSettingsHolder wraps fixed settings, bypassing the file
// watcher. Intended for tests.
func NewStaticSettingsHolder(settings CompanySettings) *SettingsHolder {
	holder := &SettingsHolder{}
	holder.current.Store(settings)
	return holder
}

func (h *SettingsHolder) Get() CompanySettings {
	return h.current.Load().(CompanySettings)
}
