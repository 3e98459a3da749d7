package dashboardcmd

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/rest"

	common "github.com/flowlytics/flowlytics/internal/cli/common"
	"github.com/flowlytics/flowlytics/services/dashboard/internal/config"
	"github.com/flowlytics/flowlytics/services/dashboard/internal/handler"
	"github.com/flowlytics/flowlytics/services/dashboard/internal/svc"
)

// New returns the `flowlytics dashboard` command.
func New() *cobra.Command {
	var cfgFile string
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Run the flow metrics dashboard API",
		RunE: func(cmd *cobra.Command, args []string) error {
			v := viper.GetViper()
			v.SetEnvPrefix("FLOWLYTICS")
			v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
			v.AutomaticEnv()
			v.SetConfigFile(cfgFile)
			if err := v.ReadInConfig(); err == nil {
				log.Printf("[config] using %s", v.ConfigFileUsed())
			} else {
				log.Printf("[warn] read config: %v", err)
			}

			common.MergeLogSection(v)
			common.SetupLoggerWithFile(
				v.GetString("log.level"), v.GetString("log.format"), v.GetString("log.file"),
				v.GetInt("log.max_size"), v.GetInt("log.max_backups"), v.GetInt("log.max_age"),
				v.GetBool("log.compress"),
			)

			// non-strict: a missing ClickHouse DSN means the flow endpoints
			// answer 503 until a store is configured
			if err := common.ValidateDashboardConfig(v, false); err != nil {
				return fmt.Errorf("config invalid: %w", err)
			}

			var c config.Config
			if err := conf.Load(cfgFile, &c); err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if dsn := v.GetString("clickhouse.dsn"); dsn != "" {
				c.ClickHouse.DSN = dsn
			}
			if dsn := v.GetString("database.dsn"); dsn != "" {
				c.Database.DSN = dsn
			}

			server := rest.MustNewServer(c.RestConf)
			defer server.Stop()

			handler.RegisterHandlers(server, svc.NewServiceContext(c))

			fmt.Printf("Starting dashboard at %s:%d...\n", c.Host, c.Port)
			server.Start()
			return nil
		},
	}
	cmd.Flags().StringVar(&cfgFile, "config", "services/dashboard/etc/dashboard.yaml", "config file (yaml)")
	cmd.Flags().String("log.level", "info", "log level: debug|info|warn|error")
	cmd.Flags().String("log.format", "console", "log format: console|json")
	cmd.Flags().String("log.file", "", "log file path (rotating); empty logs to stderr")
	cmd.Flags().Int("log.max_size", 100, "max log file size in MB before rotation")
	cmd.Flags().Int("log.max_backups", 3, "rotated files to keep")
	cmd.Flags().Int("log.max_age", 28, "days to keep rotated files")
	cmd.Flags().Bool("log.compress", false, "gzip rotated files")
	_ = viper.BindPFlags(cmd.Flags())
	return cmd
}
