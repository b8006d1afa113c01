package config

import (
	"fmt"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Dictionary   DictionaryConfig   `mapstructure:"dictionary"`
	RandomWord   RandomWordConfig   `mapstructure:"random_word"`
	WordOfTheDay WordOfTheDayConfig `mapstructure:"word_of_the_day"`
	Lookup       LookupConfig       `mapstructure:"lookup"`
	Templates    TemplatesConfig    `mapstructure:"templates"`
}

type ServerConfig struct {
	Port        int        `mapstructure:"port" validate:"min=1,max=65535"`
	CORS        CORSConfig `mapstructure:"cors"`
	MaxSessions int        `mapstructure:"max_sessions" validate:"min=1"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DictionaryConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
	// 0 disables the timeout
	Timeout time.Duration `mapstructure:"timeout"`
}

type RandomWordConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
}

type WordOfTheDayConfig struct {
	Attempts uint `mapstructure:"attempts" validate:"min=1"`
}

type LookupConfig struct {
	HistoryOnFailure bool `mapstructure:"history_on_failure"`
}

type TemplatesConfig struct {
	// Directory overrides the embedded templates when it has *.html.tmpl files
	Directory string `mapstructure:"directory" validate:"omitempty,dir"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/wordlookup")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:8080"})
	v.SetDefault("server.max_sessions", 1000)
	v.SetDefault("dictionary.base_url", "https://api.dictionaryapi.dev/api/v2")
	v.SetDefault("dictionary.timeout", 10*time.Second)
	v.SetDefault("random_word.base_url", "https://random-word-api.herokuapp.com")
	v.SetDefault("word_of_the_day.attempts", 3)
	v.SetDefault("lookup.history_on_failure", true)
	// Empty means the embedded templates
	v.SetDefault("templates.directory", "")

	envs := map[string]string{
		"server.port":          "WORDLOOKUP_SERVER_PORT",
		"dictionary.base_url":  "WORDLOOKUP_DICTIONARY_BASE_URL",
		"random_word.base_url": "WORDLOOKUP_RANDOM_WORD_BASE_URL",
	}
	for key, env := range envs {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s environment variable: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
