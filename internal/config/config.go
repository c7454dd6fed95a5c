// Package config provides configuration loading and validation for the
// Polaris installer.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config holds the installer configuration. The defaults describe the
// shipped Polaris distribution; a YAML file beside the installer can
// override any of it.
type Config struct {
	// BaseURL is the distribution server serving catalog.json and archives.
	BaseURL string `yaml:"base_url"`

	// AppName is the machine name of the managed application.
	AppName string `yaml:"app_name"`

	// DisplayName is the human-readable product name.
	DisplayName string `yaml:"display_name"`

	// Branch is the release channel followed when the store has none recorded.
	Branch string `yaml:"branch"`

	// InstallDir is where the application tree lives.
	InstallDir string `yaml:"install_dir"`

	// BinaryName is the application's executable file name.
	BinaryName string `yaml:"binary_name"`

	// AutoClose skips the final acknowledgment wait after a successful install.
	AutoClose bool `yaml:"auto_close"`

	// Shortcut controls launcher shortcut creation.
	Shortcut bool `yaml:"shortcut"`

	// AppNamespace is the store path holding DisplayVersion, Branch and
	// InstallPath.
	AppNamespace string `yaml:"app_namespace"`

	// UninstallNamespace is the platform uninstall-registration store path.
	UninstallNamespace string `yaml:"uninstall_namespace"`
}

// DefaultConfig returns the shipped configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:            "https://dist.polarisapp.io",
		AppName:            "polaris",
		DisplayName:        "Polaris",
		Branch:             "main",
		InstallDir:         defaultInstallDir(),
		BinaryName:         defaultBinaryName(),
		Shortcut:           true,
		AppNamespace:       `Software\Polaris`,
		UninstallNamespace: `Software\Microsoft\Windows\CurrentVersion\Uninstall\Polaris`,
	}
}

func defaultInstallDir() string {
	if runtime.GOOS == "windows" {
		base := os.Getenv("LOCALAPPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local")
		}
		return filepath.Join(base, "Polaris")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "opt", "polaris")
}

func defaultBinaryName() string {
	if runtime.GOOS == "windows" {
		return "polaris.exe"
	}
	return "polaris"
}

// BinaryPath returns the full path of the installed application binary.
func (c Config) BinaryPath() string {
	return filepath.Join(c.InstallDir, c.BinaryName)
}

// Validate checks the configuration for obvious misconfiguration.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base_url %q is not an absolute URL", c.BaseURL)
	}
	if c.AppName == "" {
		return fmt.Errorf("app_name must not be empty")
	}
	if c.Branch == "" {
		return fmt.Errorf("branch must not be empty")
	}
	if c.InstallDir == "" {
		return fmt.Errorf("install_dir must not be empty")
	}
	if c.BinaryName == "" {
		return fmt.Errorf("binary_name must not be empty")
	}
	if c.AppNamespace == "" || c.UninstallNamespace == "" {
		return fmt.Errorf("store namespaces must not be empty")
	}
	return nil
}

// Load reads a YAML configuration file over the defaults. A missing file is
// not an error; the defaults stand.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	data = []byte(os.ExpandEnv(string(data)))
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration invalid: %w", err)
	}
	return cfg, nil
}
