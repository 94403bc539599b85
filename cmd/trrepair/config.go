package main

import (
	"os"
	"time"

	"github.com/francoispqt/gojay"
)

// fileConfig is the optional JSON config file shape, decoded with gojay the
// way the rest of this repo's pack favors a real decoder over encoding/json.
// Every field is optional; zero values fall through to reconstruct.Config's
// own setDefaults.
type fileConfig struct {
	StripedReadTimeoutMS  int
	StripedReadBufferSize int
}

// UnmarshalJSONObject implements gojay.UnmarshalerJSONObject.
func (c *fileConfig) UnmarshalJSONObject(dec *gojay.Decoder, key string) error {
	switch key {
	case "striped_read_timeout_ms":
		return dec.Int(&c.StripedReadTimeoutMS)
	case "striped_read_buffer_size":
		return dec.Int(&c.StripedReadBufferSize)
	}
	return nil
}

// NKeys returns 0, telling gojay to decode every key it finds rather than
// stop after a fixed count.
func (c *fileConfig) NKeys() int { return 0 }

func loadFileConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()
	dec := gojay.NewDecoder(f)
	if err := dec.DecodeObject(&cfg); err != nil {
		return fileConfig{}, err
	}
	return cfg, nil
}

func (c fileConfig) timeout() time.Duration {
	if c.StripedReadTimeoutMS <= 0 {
		return 0
	}
	return time.Duration(c.StripedReadTimeoutMS) * time.Millisecond
}
