package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/hbnb/internal/paths"
	"github.com/mesh-intelligence/hbnb/pkg/store"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Backend  string `yaml:"backend"`
	DataDir  string `yaml:"data_dir,omitempty"`
	FileName string `yaml:"file_name,omitempty"`
	LogLevel string `yaml:"log_level,omitempty"`
}

func (a *app) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize hbnb configuration and storage",
		Long:  "Write config.yaml if it is missing, then create the backing file if it\ndoes not exist. An existing backing file is checked but never rewritten.",
		Args:  cobra.NoArgs,
		RunE:  a.runInit,
	}
}

func (a *app) runInit(cmd *cobra.Command, args []string) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	cfg, err := a.storeConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("backend %q: %w", cfg.Backend, err)
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	initial := configFile{Backend: cfg.Backend, FileName: cfg.FileName}
	if a.flags.dataDir != "" {
		initial.DataDir = cfg.DataDir
	}
	configPath := paths.ConfigFile(configDir)
	written, err := writeConfigIfMissing(configPath, initial)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if written {
		a.log.Info().Str("path", configPath).Msg("config written")
	}

	s, err := store.New(cfg, a.log)
	if err != nil {
		return err
	}
	if err := s.Reload(); err != nil {
		return err
	}
	if _, err := os.Stat(cfg.Path()); errors.Is(err, fs.ErrNotExist) {
		if err := s.Save(); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "hbnb initialized: config %s, data %s\n", configPath, cfg.Path())
	return nil
}

// writeConfigIfMissing creates config.yaml from cfg if the file does not
// exist. If it already exists, nothing is written.
func writeConfigIfMissing(path string, cfg configFile) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
