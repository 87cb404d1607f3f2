// Package config loads the model and storage settings shared by the CLI and
// the live tests.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"gopkg.in/yaml.v3"
)

const apiKeyEnv = "OPENAI_API_KEY"

var ErrMissingAPIKey = errors.New("api_key is empty and " + apiKeyEnv + " is not set")

type Config struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	// Schema is the path of the field schema file.
	Schema   string `yaml:"schema"`
	StoreDir string `yaml:"store_dir"`
	LogFile  string `yaml:"log_file"`
}

func Load(path string) (*Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var conf Config
	if err := yaml.Unmarshal(file, &conf); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	conf.applyDefaults()
	return &conf, nil
}

func (c *Config) applyDefaults() {
	if c.APIKey == "" {
		c.APIKey = os.Getenv(apiKeyEnv)
	}
	if c.Model == "" {
		c.Model = "gpt-4o-mini"
	}
	if c.StoreDir == "" {
		c.StoreDir = ".slotagent/state"
	}
}

func (c *Config) NewChatModel(ctx context.Context) (*openai.ChatModel, error) {
	if c.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  c.APIKey,
		Model:   c.Model,
		BaseURL: c.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("init chat model: %w", err)
	}
	return chatModel, nil
}

func (c *Config) String() string {
	return fmt.Sprintf("Config{BaseURL:%q, Model:%q, Schema:%q, StoreDir:%q}", c.BaseURL, c.Model, c.Schema, c.StoreDir)
}
