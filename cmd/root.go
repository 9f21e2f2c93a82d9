package cmd

import (
	"errors"
	"io/fs"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app       = "decision-match"
	envPrefix = "DECISION_MATCH"
)

type Config struct {
	DataDir      string          `mapstructure:"data-dir"`
	ArtifactsDir string          `mapstructure:"artifacts-dir"`
	LabelsFile   string          `mapstructure:"labels-file"`
	Server       *ServerConfig   `mapstructure:"server"`
	Store        *StoreConfig    `mapstructure:"store"`
	Predict      *PredictConfig  `mapstructure:"predict"`
	Training     *TrainingConfig `mapstructure:"training"`
}

type ServerConfig struct {
	Listen    string  `mapstructure:"listen"`
	RateLimit float64 `mapstructure:"rate-limit"`
	Burst     int     `mapstructure:"burst"`
}

type StoreConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type PredictConfig struct {
	Threshold float64 `mapstructure:"threshold"`
}

type TrainingConfig struct {
	TestSize    float64 `mapstructure:"test-size"`
	Seed        uint64  `mapstructure:"seed"`
	MaxIter     int     `mapstructure:"max-iter"`
	MaxFeatures int     `mapstructure:"max-features"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "decision-match trains and serves a job/applicant match classifier",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is decision-match.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data-dir", "data")
	v.SetDefault("artifacts-dir", "artifacts")
	v.SetDefault("labels-file", "")
	v.SetDefault("server.listen", ":8000")
	v.SetDefault("server.rate-limit", 0)
	v.SetDefault("server.burst", 10)
	v.SetDefault("store.enabled", true)
	v.SetDefault("predict.threshold", 0.5)
	v.SetDefault("training.test-size", 0.2)
	v.SetDefault("training.seed", 42)
	v.SetDefault("training.max-iter", 1000)
	v.SetDefault("training.max-features", 40000)
}

func initConfig() {
	// The version command needs no configuration.
	if versionCmd.CalledAs() != "" {
		return
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %s", err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := readConfig(viper.GetViper(), cfgFile); err != nil {
		log.Fatal(err)
	}
}

// readConfig reads path, or decision-match.yaml from the current directory
// when path is empty. Only an explicit path is required to exist.
func readConfig(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		return v.ReadInConfig()
	}

	v.AddConfigPath(".")
	v.SetConfigName(app)
	v.SetConfigType("yaml")

	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}
	return err
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config == nil {
		return nil, errors.New("config is empty")
	}

	if config.Server == nil {
		config.Server = &ServerConfig{}
	}
	if config.Store == nil {
		config.Store = &StoreConfig{}
	}
	if config.Predict == nil {
		config.Predict = &PredictConfig{}
	}
	if config.Training == nil {
		config.Training = &TrainingConfig{}
	}

	return config, nil
}
