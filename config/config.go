// Package config gathers the settings of the tablab commands from the
// environment, optionally seeded from a .env file.
package config

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/jsphweid/tablab/constants"
	"github.com/jsphweid/tablab/util"
	"github.com/pkg/errors"
)

type Config struct {
	DataDir      string        `json:"data_dir"`
	DBFileName   string        `json:"db_file_name"`
	DBPath       string        `json:"-"`
	ListenAddr   string        `json:"listen_addr"`
	MidiOut      string        `json:"midi_out"`      // port name, console only when empty
	SaveDebounce time.Duration `json:"save_debounce"` // quiet time before an edited score is written
	CORSOrigins  []string      `json:"cors_origins"`
}

const (
	saveDebounce = 500 * time.Millisecond
	corsOrigins  = "*"
)

// LoadConfig reads the environment and makes sure the data directory
// exists.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DataDir:      constants.GetDataDir(),
		DBFileName:   constants.GetDBFile(),
		ListenAddr:   constants.GetListenAddr(),
		MidiOut:      os.Getenv("TABLAB_MIDI_OUT"),
		SaveDebounce: parseDurationOrDefault(os.Getenv("TABLAB_SAVE_DEBOUNCE"), saveDebounce),
		CORSOrigins:  parseList(os.Getenv("TABLAB_CORS_ORIGINS"), corsOrigins),
	}
	cfg.DBPath = filepath.Join(cfg.DataDir, cfg.DBFileName)
	if err := util.EnsureDir(cfg.DataDir); err != nil {
		return nil, errors.Wrapf(err, "failed to create data directory %s", cfg.DataDir)
	}
	return cfg, nil
}

func parseDurationOrDefault(s string, defaultValue time.Duration) time.Duration {
	if s == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Warning: Could not parse duration '%s', using default '%v'. Error: %v", s, defaultValue, err)
		return defaultValue
	}
	return d
}

func parseList(s string, defaultValue string) []string {
	if s == "" {
		s = defaultValue
	}
	var res []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			res = append(res, item)
		}
	}
	return res
}
