package main

import (
	"errors"
	"strings"
	"time"

	"solar_eda/internal/analysis"
	"solar_eda/internal/dataset"
	"solar_eda/internal/models"

	"github.com/spf13/viper"
)

// appConfig is the resolved process configuration.
type appConfig struct {
	Port           string
	LogLevel       string
	LogFormat      string
	DBPath         string
	SigningKey     string
	TokenTTL       time.Duration
	WriteTimeout   time.Duration
	DatasetsDir    string
	DatasetNames   []string
	S3             dataset.S3Config
	NegativePolicy models.NegativePolicy
	HistogramBins  int
	MaxUploadBytes int64
	ResponseLimit  int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("db.path", "solar_eda.db")
	v.SetDefault("auth.token_ttl", "1h")
	v.SetDefault("http.write_timeout", "2m")
	v.SetDefault("datasets.dir", "data")
	v.SetDefault("datasets.names", dataset.DefaultNames)
	v.SetDefault("datasets.s3.use_ssl", true)
	v.SetDefault("cleaning.negative_policy", string(models.PolicyDrop))
	v.SetDefault("analysis.histogram_bins", analysis.DefaultHistogramBins)
	v.SetDefault("upload.max_bytes", 64<<20)
	v.SetDefault("response.limit", 500)
}

// loadConfig reads configs/config.yml when present; SOLAR_* environment
// variables override file values (SOLAR_DB_PATH for db.path).
func loadConfig(v *viper.Viper, paths ...string) (appConfig, error) {
	setDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix("SOLAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return appConfig{}, err
		}
	}

	policy, err := models.ParseNegativePolicy(v.GetString("cleaning.negative_policy"))
	if err != nil {
		return appConfig{}, err
	}
	key := v.GetString("auth.signing_key")
	if key == "" {
		return appConfig{}, errors.New("auth.signing_key is required (set SOLAR_AUTH_SIGNING_KEY)")
	}

	return appConfig{
		Port:         v.GetString("port"),
		LogLevel:     v.GetString("log.level"),
		LogFormat:    v.GetString("log.format"),
		DBPath:       v.GetString("db.path"),
		SigningKey:   key,
		TokenTTL:     v.GetDuration("auth.token_ttl"),
		WriteTimeout: v.GetDuration("http.write_timeout"),
		DatasetsDir:  v.GetString("datasets.dir"),
		DatasetNames: v.GetStringSlice("datasets.names"),
		S3: dataset.S3Config{
			Endpoint:  v.GetString("datasets.s3.endpoint"),
			AccessKey: v.GetString("datasets.s3.access_key"),
			SecretKey: v.GetString("datasets.s3.secret_key"),
			Bucket:    v.GetString("datasets.s3.bucket"),
			Prefix:    v.GetString("datasets.s3.prefix"),
			UseSSL:    v.GetBool("datasets.s3.use_ssl"),
		},
		NegativePolicy: policy,
		HistogramBins:  v.GetInt("analysis.histogram_bins"),
		MaxUploadBytes: v.GetInt64("upload.max_bytes"),
		ResponseLimit:  v.GetInt("response.limit"),
	}, nil
}
