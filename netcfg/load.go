package netcfg

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/momentics/netkit/api"
)

// Load reads a YAML document from path, applies operational defaults to
// any zero-valued field, then applies opts in order.
func Load(path string, opts ...Option) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, api.NewError(api.ErrCodeInvalidArgument, api.CategoryConfiguration,
			"read config "+path).Wrap(err)
	}
	return Parse(data, opts...)
}

// Parse decodes a YAML document already in memory — used by Load and
// directly by callers embedding config inline (e.g. in tests).
func Parse(data []byte, opts ...Option) (Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, api.NewError(api.ErrCodeInvalidArgument, api.CategoryConfiguration,
			"parse config").Wrap(err)
	}
	c = c.defaulted().Apply(opts...)
	return c, nil
}
