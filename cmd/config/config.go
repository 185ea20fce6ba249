package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mattsolo1/grove-markview/pkg/models"
	"github.com/mattsolo1/grove-markview/pkg/plantuml"
	"github.com/mattsolo1/grove-markview/pkg/service"
	"github.com/mattsolo1/grove-markview/pkg/store"
	"github.com/mattsolo1/grove-markview/pkg/tree"
)

var (
	cfgFile string
	Verbose bool
)

// InitConfig points viper at the config file and registers defaults
func InitConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		configDir, err := os.UserConfigDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(filepath.Join(configDir, "markview"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("MKV")
	viper.AutomaticEnv()

	dataDir, err := store.DefaultDir()
	if err != nil {
		dataDir = filepath.Join(os.TempDir(), store.AppName)
	}
	viper.SetDefault("data_dir", dataDir)
	viper.SetDefault("max_depth", tree.DefaultMaxDepth)
	viper.SetDefault("theme", string(models.ThemeLight))
	viper.SetDefault("font_size", models.DefaultFontSize)
	viper.SetDefault("plantuml_server", plantuml.DefaultServerURL)
	viper.SetDefault("respect_gitignore", false)
	viper.SetDefault("index_file", "index.db")

	_ = viper.ReadInConfig()
}

// Load builds the service configuration from viper
func Load() (*service.Config, error) {
	theme, err := models.ParseTheme(viper.GetString("theme"))
	if err != nil {
		return nil, fmt.Errorf("config theme: %w", err)
	}

	return &service.Config{
		DataDir:          viper.GetString("data_dir"),
		MaxDepth:         viper.GetInt("max_depth"),
		Theme:            theme,
		FontSize:         viper.GetInt("font_size"),
		PlantUMLServer:   viper.GetString("plantuml_server"),
		RespectGitIgnore: viper.GetBool("respect_gitignore"),
		IndexFile:        viper.GetString("index_file"),
	}, nil
}

// NewLogger returns the stderr logger, quiet unless verbose is set
func NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	if Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// InitService loads configuration and creates the service
func InitService() (*service.Service, error) {
	InitConfig()

	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	svc, err := service.New(cfg, NewLogger())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize service: %w", err)
	}
	return svc, nil
}

func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/markview/config.yaml)")
	cmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().String("theme", "", "Render theme: light or dark")
	_ = viper.BindPFlag("theme", cmd.PersistentFlags().Lookup("theme"))
}
