package kurir

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultsFile is the YAML shape accepted by LoadDefaults:
//
//	method: get
//	timeout: 5s
//	headers:
//	  X-Client: kurir        # top-level header
//	  common:                # header group
//	    Accept: application/json
//	  post:
//	    Content-Type: application/json
//	params:
//	  api_key: secret
type DefaultsFile struct {
	URL     string                 `mapstructure:"url"`
	Method  string                 `mapstructure:"method"`
	Timeout time.Duration          `mapstructure:"timeout"`
	Headers map[string]interface{} `mapstructure:"headers"`
	Params  map[string]interface{} `mapstructure:"params"`
}

// LoadDefaults decodes a YAML defaults document into a RequestConfig suitable for
// WithDefaults. Unknown keys are rejected. An empty document yields an empty config.
func LoadDefaults(r io.Reader) (*RequestConfig, error) {
	var raw map[string]interface{}
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, newConfigError("parse defaults", err)
	}

	var file DefaultsFile
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused: true,
		Result:      &file,
	})
	if err != nil {
		return nil, newConfigError("build defaults decoder", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, newConfigError("decode defaults", err)
	}
	return file.RequestConfig()
}

// LoadDefaultsFile reads defaults from a YAML file.
func LoadDefaultsFile(path string) (*RequestConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newConfigError("open defaults file", err)
	}
	defer f.Close()
	return LoadDefaults(f)
}

// RequestConfig converts the decoded file into a RequestConfig.
func (f DefaultsFile) RequestConfig() (*RequestConfig, error) {
	if f.Timeout < 0 {
		return nil, newConfigError("decode defaults", fmt.Errorf("timeout must not be negative, got %s", f.Timeout))
	}

	config := &RequestConfig{
		URL:     f.URL,
		Method:  f.Method,
		Timeout: f.Timeout,
	}
	if len(f.Params) > 0 {
		config.Params = f.Params
	}
	if len(f.Headers) == 0 {
		return config, nil
	}

	headers := NewHeader()
	for _, name := range sortedKeys(f.Headers) {
		switch value := f.Headers[name].(type) {
		case map[string]interface{}:
			group := headers.EnsureGroup(name)
			for _, key := range sortedKeys(value) {
				group.Set(key, fmt.Sprint(value[key]))
			}
		case nil:
			return nil, newConfigError("decode defaults", fmt.Errorf("header %q has no value", name))
		default:
			headers.Set(name, fmt.Sprint(value))
		}
	}
	config.Headers = headers
	return config, nil
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
