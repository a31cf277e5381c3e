package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rsc-sentinel/internal/config"
	"github.com/rsc-sentinel/internal/logger"
)

var (
	cfgFile string
	cfg     *config.Config
	log     logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "rsc-sentinel",
	Short: "Detect React Server Components endpoints on your own deployments",
	Long: `rsc-sentinel checks whether a web application serves the React Server
Components (Flight) protocol. It scores the loaded page for static markers,
then sends one benign GET with the RSC header to confirm the server speaks the
component stream, and notes any web application firewall in front of it.

No mutating request is ever sent.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(c *config.Config, l logger.Logger) error {
	cfg = c
	log = l
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return applyFlags()
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.rsc-sentinel.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().String("proxy", "", "proxy URL (http://, https:// or socks5://)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "request timeout")
	rootCmd.PersistentFlags().Duration("call-timeout", 0, "bound on each passive or active step")
	rootCmd.PersistentFlags().String("user-agent", "", "custom User-Agent string")
	rootCmd.PersistentFlags().Bool("insecure", false, "skip TLS certificate verification")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format (table, json, yaml)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("scanning.proxy", rootCmd.PersistentFlags().Lookup("proxy"))
	viper.BindPFlag("scanning.timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	viper.BindPFlag("relay.call_timeout", rootCmd.PersistentFlags().Lookup("call-timeout"))
	viper.BindPFlag("scanning.user_agent", rootCmd.PersistentFlags().Lookup("user-agent"))
	viper.BindPFlag("insecure", rootCmd.PersistentFlags().Lookup("insecure"))
	viper.BindPFlag("output.format", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("no-color", rootCmd.PersistentFlags().Lookup("no-color"))
}

// initConfig reads an explicit config file over the one config.Load found.
func initConfig() {
	if cfgFile == "" {
		return
	}

	loaded, err := config.LoadFrom([]string{cfgFile})
	cobra.CheckErr(err)
	*cfg = *loaded
	fmt.Fprintln(os.Stderr, "Using config file:", cfgFile)
}

// applyFlags lays explicitly set flags over the loaded configuration
func applyFlags() error {
	flags := rootCmd.PersistentFlags()

	if flags.Changed("proxy") {
		cfg.Scanning.Proxy = viper.GetString("scanning.proxy")
	}
	if flags.Changed("timeout") {
		cfg.Scanning.Timeout = viper.GetDuration("scanning.timeout")
	}
	if flags.Changed("call-timeout") {
		cfg.Relay.CallTimeout = viper.GetDuration("relay.call_timeout")
	}
	if flags.Changed("user-agent") {
		cfg.Scanning.UserAgent = viper.GetString("scanning.user_agent")
	}
	if viper.GetBool("insecure") {
		cfg.Scanning.VerifySSL = false
	}
	if flags.Changed("output") {
		cfg.Output.Format = viper.GetString("output.format")
	}
	if viper.GetBool("no-color") {
		cfg.Output.Color = false
	}
	if viper.GetBool("verbose") {
		cfg.LogLevel = "debug"
		log = logger.New(cfg.LogLevel, cfg.LogFormat)
	}

	return cfg.Validate()
}
