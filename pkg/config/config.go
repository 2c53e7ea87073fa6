package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the lead searcher
type Config struct {
	// VK API access
	VK VKConfig `yaml:"vk" json:"vk"`

	// Pause between API requests
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Snapshot and report locations
	Files FilesConfig `yaml:"files" json:"files"`

	// Stage parameters
	Pipeline PipelineConfig `yaml:"pipeline" json:"pipeline"`

	// Notification preferences
	Notifications NotificationConfig `yaml:"notifications" json:"notifications"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// VKConfig holds VK API configuration
type VKConfig struct {
	Token      string        `yaml:"token" json:"token"`
	APIVersion string        `yaml:"api_version" json:"api_version"`
	APIURI     string        `yaml:"api_uri" json:"api_uri"`
	BaseURI    string        `yaml:"base_uri" json:"base_uri"`
	OAuthURI   string        `yaml:"oauth_uri" json:"oauth_uri"`
	ClientID   string        `yaml:"client_id" json:"client_id"`
	Scopes     string        `yaml:"scopes" json:"scopes"`
	Timeout    time.Duration `yaml:"timeout" json:"timeout"`
}

// RateLimitConfig holds the fixed inter-request delay
type RateLimitConfig struct {
	Interval time.Duration `yaml:"interval" json:"interval"`
	// SearchMultiplier scales Interval for group search requests
	SearchMultiplier int `yaml:"search_multiplier" json:"search_multiplier"`
}

// FilesConfig holds snapshot file names, relative to ReportsDir
type FilesConfig struct {
	ReportsDir         string `yaml:"reports_dir" json:"reports_dir"`
	GroupsSearch       string `yaml:"groups_search" json:"groups_search"`
	GroupsSearchActual string `yaml:"groups_search_actual" json:"groups_search_actual"`
	WallPosts          string `yaml:"wall_posts" json:"wall_posts"`
	WallComments       string `yaml:"wall_comments" json:"wall_comments"`
	WallLikes          string `yaml:"wall_likes" json:"wall_likes"`
	PhotosComments     string `yaml:"photos_comments" json:"photos_comments"`
	PhotosLikes        string `yaml:"photos_likes" json:"photos_likes"`
	Report             string `yaml:"report" json:"report"`
	ReportUniqueUsers  string `yaml:"report_unique_users" json:"report_unique_users"`
}

// PipelineConfig holds the default stage parameters
type PipelineConfig struct {
	Query            string `yaml:"query" json:"query"`
	GroupsLimit      int    `yaml:"groups_limit" json:"groups_limit"`
	Months           int    `yaml:"months" json:"months"`
	DaysWall         int    `yaml:"days_wall" json:"days_wall"`
	DaysPhotos       int    `yaml:"days_photos" json:"days_photos"`
	MyGroupID        string `yaml:"my_group_id" json:"my_group_id"`
	MyGroupShortName string `yaml:"my_group_short_name" json:"my_group_short_name"`
}

// NotificationConfig holds notification preferences
type NotificationConfig struct {
	Enabled    bool `yaml:"enabled" json:"enabled"`
	OnComplete bool `yaml:"on_complete" json:"on_complete"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		VK: VKConfig{
			APIVersion: "5.199",
			APIURI:     "https://api.vk.com/method",
			BaseURI:    "https://vk.com",
			OAuthURI:   "https://oauth.vk.com",
			ClientID:   "5446787",
			Scopes:     "wall,groups,offline,photos",
			Timeout:    30 * time.Second,
		},
		RateLimit: RateLimitConfig{
			Interval:         340 * time.Millisecond,
			SearchMultiplier: 2,
		},
		Files: FilesConfig{
			ReportsDir:         "reports",
			GroupsSearch:       "groups_search.json",
			GroupsSearchActual: "groups_search_actual.json",
			WallPosts:          "wall_posts.json",
			WallComments:       "wall_comments.json",
			WallLikes:          "wall_likes.json",
			PhotosComments:     "photos_comments.json",
			PhotosLikes:        "photos_likes.json",
			Report:             "report.txt",
			ReportUniqueUsers:  "report_unic_users.txt",
		},
		Pipeline: PipelineConfig{
			Query:       "фотограф новосибирск",
			GroupsLimit: 20,
			Months:      3,
			DaysWall:    15,
			DaysPhotos:  15,
		},
		Notifications: NotificationConfig{
			Enabled:    false,
			OnComplete: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if token := os.Getenv("VK_TOKEN"); token != "" {
		c.VK.Token = token
	}
	if version := os.Getenv("VKLEADS_API_VERSION"); version != "" {
		c.VK.APIVersion = version
	}
	if dir := os.Getenv("VKLEADS_REPORTS_DIR"); dir != "" {
		c.Files.ReportsDir = dir
	}
	if interval := os.Getenv("VKLEADS_API_SLEEP"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err != nil {
			return fmt.Errorf("invalid VKLEADS_API_SLEEP: %w", err)
		}
		c.RateLimit.Interval = d
	}
	if query := os.Getenv("VKLEADS_QUERY"); query != "" {
		c.Pipeline.Query = query
	}
	if limit := os.Getenv("VKLEADS_GROUPS_LIMIT"); limit != "" {
		val, err := strconv.Atoi(limit)
		if err != nil {
			return fmt.Errorf("invalid VKLEADS_GROUPS_LIMIT: %w", err)
		}
		c.Pipeline.GroupsLimit = val
	}
	if id := os.Getenv("VKLEADS_MY_GROUP_ID"); id != "" {
		c.Pipeline.MyGroupID = id
	}
	if name := os.Getenv("VKLEADS_MY_GROUP_SHORT_NAME"); name != "" {
		c.Pipeline.MyGroupShortName = name
	}
	if notif := os.Getenv("VKLEADS_NOTIFICATIONS_ENABLED"); notif != "" {
		c.Notifications.Enabled = strings.ToLower(notif) == "true"
	}
	if level := os.Getenv("VKLEADS_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		"vkleads.yaml",
		".vkleads.yaml",
		".vkleads.yml",
		filepath.Join(home, ".config", "vkleads", "config.yaml"),
		filepath.Join(home, ".vkleads.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid. The token is not checked
// here: the report stage runs without one.
func (c *Config) Validate() error {
	var errs []error

	if c.VK.APIVersion == "" {
		errs = append(errs, errors.New("VK API version is required"))
	}
	if c.VK.APIURI == "" {
		errs = append(errs, errors.New("VK API URI is required"))
	}
	if c.VK.BaseURI == "" {
		errs = append(errs, errors.New("VK base URI is required"))
	}
	if c.VK.Timeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}

	if c.RateLimit.Interval < 0 {
		errs = append(errs, errors.New("rate limit interval cannot be negative"))
	}
	if c.RateLimit.SearchMultiplier < 1 {
		errs = append(errs, errors.New("search multiplier must be at least 1"))
	}

	if c.Files.ReportsDir == "" {
		errs = append(errs, errors.New("reports directory is required"))
	}

	if c.Pipeline.GroupsLimit <= 0 {
		errs = append(errs, errors.New("groups limit must be positive"))
	}
	if c.Pipeline.Months <= 0 {
		errs = append(errs, errors.New("months must be positive"))
	}
	if c.Pipeline.DaysWall <= 0 || c.Pipeline.DaysPhotos <= 0 {
		errs = append(errs, errors.New("day windows must be positive"))
	}
	if c.Pipeline.MyGroupID != "" {
		if _, err := strconv.Atoi(c.Pipeline.MyGroupID); err != nil {
			errs = append(errs, fmt.Errorf("own group id must be numeric: %q", c.Pipeline.MyGroupID))
		}
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Path returns the location of a snapshot file inside the reports directory
func (c *Config) Path(name string) string {
	return filepath.Join(c.Files.ReportsDir, name)
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if token, ok := flags["token"].(string); ok && token != "" {
		c.VK.Token = token
	}
	if dir, ok := flags["reports-dir"].(string); ok && dir != "" {
		c.Files.ReportsDir = dir
	}
	if query, ok := flags["search"].(string); ok && query != "" {
		c.Pipeline.Query = query
	}
	if limit, ok := flags["groups-limit"].(int); ok && limit > 0 {
		c.Pipeline.GroupsLimit = limit
	}
	if months, ok := flags["months"].(int); ok && months > 0 {
		c.Pipeline.Months = months
	}
	if days, ok := flags["days-wall"].(int); ok && days > 0 {
		c.Pipeline.DaysWall = days
	}
	if days, ok := flags["days-photos"].(int); ok && days > 0 {
		c.Pipeline.DaysPhotos = days
	}
	if id, ok := flags["my-group-id"].(string); ok && id != "" {
		c.Pipeline.MyGroupID = id
	}
	if name, ok := flags["my-group-short-name"].(string); ok && name != "" {
		c.Pipeline.MyGroupShortName = name
	}
	if enabled, ok := flags["notifications"].(bool); ok {
		c.Notifications.Enabled = enabled
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".vkleads.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
