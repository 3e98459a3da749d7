package common

import (
	"testing"

	"github.com/spf13/viper"
)

func TestValidateAddr(t *testing.T) {
	if err := ValidateAddr("0.0.0.0:8888"); err != nil {
		t.Fatalf("valid addr rejected: %v", err)
	}
	if err := ValidateAddr("no-port"); err == nil {
		t.Fatal("addr without port must fail")
	}
	if err := ValidateAddr("  "); err == nil {
		t.Fatal("blank addr must fail")
	}
}

func TestValidateDashboardConfig(t *testing.T) {
	v := viper.New()
	v.Set("host", "0.0.0.0")
	v.Set("port", 8888)
	v.Set("clickhouse.dsn", "clickhouse://localhost:9000/analytics")
	v.Set("database.dsn", "postgres://u:p@localhost:5432/flowlytics")
	if err := ValidateDashboardConfig(v, true); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestValidateDashboardConfigMissingClickHouse(t *testing.T) {
	v := viper.New()
	v.Set("host", "0.0.0.0")
	v.Set("port", 8888)
	if err := ValidateDashboardConfig(v, true); err == nil {
		t.Fatal("strict mode must require clickhouse.dsn")
	}
	if err := ValidateDashboardConfig(v, false); err != nil {
		t.Fatalf("non-strict mode should allow missing dsn: %v", err)
	}
}

func TestValidateDashboardConfigBadValues(t *testing.T) {
	v := viper.New()
	v.Set("host", "0.0.0.0")
	if err := ValidateDashboardConfig(v, false); err == nil {
		t.Fatal("missing port must fail")
	}
	v.Set("port", 8888)
	v.Set("database.dsn", "mysql://nope")
	if err := ValidateDashboardConfig(v, false); err == nil {
		t.Fatal("unsupported db scheme must fail")
	}
}

func TestMergeLogSection(t *testing.T) {
	v := viper.New()
	v.Set("log", map[string]any{"level": "debug", "format": "json"})
	MergeLogSection(v)
	if v.GetString("log.level") != "debug" || v.GetString("log.format") != "json" {
		t.Fatalf("log section not flattened: %v", v.AllSettings())
	}
}
