package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	common "github.com/flowlytics/flowlytics/internal/cli/common"
	dashboardcmd "github.com/flowlytics/flowlytics/services/dashboard/dashboardcmd"
)

func main() {
	root := &cobra.Command{Use: "flowlytics", Short: "Flowlytics unified CLI"}

	root.AddCommand(dashboardcmd.New())

	// completion
	comp := &cobra.Command{Use: "completion [bash|zsh|fish|powershell]", Short: "Generate shell completion"}
	comp.Run = func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			log.Fatalf("specify a shell: bash|zsh|fish|powershell")
		}
		switch args[0] {
		case "bash":
			root.GenBashCompletion(os.Stdout)
		case "zsh":
			root.GenZshCompletion(os.Stdout)
		case "fish":
			root.GenFishCompletion(os.Stdout, true)
		case "powershell":
			root.GenPowerShellCompletionWithDesc(os.Stdout)
		default:
			log.Fatalf("unknown shell: %s", args[0])
		}
	}
	root.AddCommand(comp)

	// config test (validate and optionally print effective settings)
	cfgTest := &cobra.Command{Use: "config test", Short: "Validate and print effective config"}
	var cfgFile string
	var strict, show bool
	cfgTest.Flags().StringVar(&cfgFile, "config", "", "config file path")
	cfgTest.Flags().BoolVar(&strict, "strict", false, "require a ClickHouse DSN")
	cfgTest.Flags().BoolVar(&show, "show", false, "print effective settings as yaml")
	cfgTest.RunE = func(cmd *cobra.Command, args []string) error {
		if cfgFile == "" {
			return fmt.Errorf("--config required")
		}
		v := viper.New()
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return err
		}
		common.MergeLogSection(v)
		if err := common.ValidateDashboardConfig(v, strict); err != nil {
			return err
		}
		if show {
			out, err := yaml.Marshal(v.AllSettings())
			if err != nil {
				return err
			}
			os.Stdout.Write(out)
		}
		fmt.Println("dashboard config OK")
		return nil
	}
	root.AddCommand(cfgTest)

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}
