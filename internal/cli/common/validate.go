package common

import (
	"fmt"
	"net"
	"strings"

	clickhouse "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/spf13/viper"
)

func ValidateAddr(addr string) error {
	if strings.TrimSpace(addr) == "" {
		return fmt.Errorf("addr is empty")
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("addr %q: %w", addr, err)
	}
	return nil
}

// ValidateDashboardConfig checks the effective dashboard config. In strict
// mode a missing ClickHouse DSN is an error; otherwise the service starts
// with the flow endpoints answering 503 until a store is configured.
func ValidateDashboardConfig(v *viper.Viper, strict bool) error {
	if strings.TrimSpace(v.GetString("host")) == "" {
		return fmt.Errorf("host is empty")
	}
	if port := v.GetInt("port"); port <= 0 || port > 65535 {
		return fmt.Errorf("port %d out of range", v.GetInt("port"))
	}
	chDSN := strings.TrimSpace(v.GetString("clickhouse.dsn"))
	if chDSN == "" {
		if strict {
			return fmt.Errorf("clickhouse.dsn is required")
		}
	} else if _, err := clickhouse.ParseDSN(chDSN); err != nil {
		return fmt.Errorf("clickhouse.dsn: %w", err)
	}
	dbDSN := strings.TrimSpace(v.GetString("database.dsn"))
	if dbDSN != "" && !hasKnownDBScheme(dbDSN) {
		return fmt.Errorf("database.dsn %q: unsupported scheme", dbDSN)
	}
	return nil
}

func hasKnownDBScheme(dsn string) bool {
	for _, prefix := range []string{"postgres://", "postgresql://", "pgx://", "sqlite://", "file:"} {
		if strings.HasPrefix(dsn, prefix) {
			return true
		}
	}
	return dsn == ":memory:"
}
