package resource

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/spf13/viper"
)

// DefaultPropertiesPath is used when PROPERTIES_FILE_PATH is not set.
const DefaultPropertiesPath = "configs/application.yml"

var envPattern = regexp.MustCompile(`\$\{([^:}]+)(?::([^}]*))?}`)

// Properties holds application properties loaded from YAML, with ${ENV:default} placeholders resolved.
type Properties struct {
	v *viper.Viper
}

// PathFromEnv returns PROPERTIES_FILE_PATH or the default properties location.
func PathFromEnv() string {
	if value, ok := os.LookupEnv("PROPERTIES_FILE_PATH"); ok && value != "" {
		return value
	}
	return DefaultPropertiesPath
}

// Load reads the YAML file at filepath.
func Load(filepath string) (*Properties, error) {
	v := viper.New()
	v.SetConfigFile(filepath)
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("fail to read properties %s: %w", filepath, err)
	}

	resolved := make(map[string]any)
	parsePropertiesMap("", v.AllSettings(), resolved)

	for key, value := range resolved {
		v.Set(key, value)
	}

	return &Properties{v: v}, nil
}

// parsePropertiesMap reads recursively the YAML file
func parsePropertiesMap(prefix string, data map[string]any, result map[string]any) {
	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			result[fullKey] = resolveEnvVariable(v)
		case map[string]any:
			parsePropertiesMap(fullKey, v, result)
		default:
			result[fullKey] = v
		}
	}
}

// resolveEnvVariable replaces a ${NAME:default} value with the environment value or its default.
// Plain values are returned untouched.
func resolveEnvVariable(value string) any {
	matches := envPattern.FindStringSubmatch(value)
	if len(matches) == 0 {
		return value
	}

	if envValue, exists := os.LookupEnv(matches[1]); exists {
		return envValue
	}
	return matches[2]
}

func (p *Properties) Get(key string) any {
	return p.v.Get(key)
}

func (p *Properties) IsSet(key string) bool {
	return p.v.IsSet(key)
}

func (p *Properties) GetString(key string) string {
	return p.v.GetString(key)
}

func (p *Properties) GetBool(key string) bool {
	return p.v.GetBool(key)
}

func (p *Properties) GetDuration(key string) time.Duration {
	return p.v.GetDuration(key)
}

func (p *Properties) GetInt(key string) int {
	return p.v.GetInt(key)
}

func (p *Properties) GetFloat64(key string) float64 {
	return p.v.GetFloat64(key)
}

func (p *Properties) GetStringSlice(key string) []string {
	return p.v.GetStringSlice(key)
}
