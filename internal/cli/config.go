package cli

import (
	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
)

// Config is the optional TOML file named by --config. Flags given on the
// command line take precedence over it.
//
//	modules = ["mathbig", "u256"]
//	format  = "json"
//	verbose = true
//	data    = "00010203"
type Config struct {
	Modules []string `toml:"modules"`
	Format  string   `toml:"format"`
	Verbose bool     `toml:"verbose"`
	Data    string   `toml:"data"` // Default oracle for exec, as hex.
}

func LoadConfig(path string) (*Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "bnfuzz: load config %q", path)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return nil, errors.Newf("bnfuzz: config %q: unknown key %q", path, undec[0].String())
	}
	return &cfg, nil
}
