package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/go-i2p/weblog/config"
	"github.com/go-i2p/weblog/content"
	"github.com/go-i2p/weblog/locale"
	"github.com/go-i2p/weblog/logger"
)

var cfgFile string
var c *config.Conf = &config.Conf{}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "weblog",
	Short: "Build, serve and sign the feeds of a two-language markdown blog",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConf(cmd.Flags()); err != nil {
			return err
		}
		logger.Init(c.LogLevel)
		return nil
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.weblog.yaml)")
	pf.String("log-level", "info", "log level: debug, info, warn or error")
	pf.String("contentdir", "content/blog", "directory holding one sub-directory of posts per locale")
	pf.String("builddir", "build", "directory build output is written to and served from")
	pf.StringSlice("extensions", []string{content.DefaultExtension}, "content file extensions to read")
	pf.String("defaultlocale", locale.DefaultLocale, "locale served without a path prefix")
	pf.StringSlice("locales", []string{locale.DefaultLocale, locale.AlternateLocale}, "supported locales")
	pf.String("sitename", "Weblog", "site title used in feeds")
	pf.String("sitedescription", "", "site description used in feeds")
	pf.String("siteurl", "http://localhost:3000", "absolute base URL of the site")
	pf.String("siteimage", "", "feed image URL (default <siteurl>/images/og-image.png)")
	pf.String("authorname", "Admin", "feed author name")
	pf.String("authoremail", "", "feed author e-mail")
}

// initConfig reads in .env, the config file and WEBLOG_* environment variables.
func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "Ignoring .env:", err)
	}
	logger.InitFromEnv()
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".weblog" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".weblog")
	}

	viper.SetEnvPrefix("WEBLOG")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConf binds the flags of the running command and decodes the merged
// configuration into c. Binding at run time keeps flags that several
// commands share, such as builddir, tied to the command actually invoked.
func loadConf(flags *pflag.FlagSet) error {
	if err := viper.BindPFlags(flags); err != nil {
		return fmt.Errorf("loadConf: %w", err)
	}
	*c = config.Conf{}
	if err := viper.Unmarshal(c); err != nil {
		return fmt.Errorf("loadConf: %w", err)
	}
	return nil
}

// localeSet builds the supported locales from the configuration.
func localeSet(conf *config.Conf) (locale.Set, error) {
	set, err := locale.New(conf.DefaultLocale, conf.Locales...)
	if err != nil {
		return locale.Set{}, fmt.Errorf("locales: %w", err)
	}
	return set, nil
}

// repository opens the content repository described by conf.
func repository(conf *config.Conf) (*content.Repository, locale.Set, error) {
	set, err := localeSet(conf)
	if err != nil {
		return nil, locale.Set{}, err
	}
	repo := content.NewRepository(conf.ContentDir, set, content.WithExtensions(conf.Extensions...))
	return repo, set, nil
}
