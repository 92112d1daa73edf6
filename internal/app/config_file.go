package app

import (
    "encoding/json"
    "fmt"
    "os"
    "path/filepath"
    "strings"
    "time"

    yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema.
// Nested sections map naturally to flags and env.
type FileConfig struct {
    LLM struct {
        BaseURL           string `yaml:"base" json:"base"`
        Model             string `yaml:"model" json:"model"`
        BundleModel       string `yaml:"bundleModel" json:"bundleModel"`
        APIKey            string `yaml:"key" json:"key"`
        ChatContextTokens int    `yaml:"chatContextTokens" json:"chatContextTokens"`
    } `yaml:"llm" json:"llm"`

    HTTP struct {
        Addr            string   `yaml:"addr" json:"addr"`
        CORSOrigins     []string `yaml:"corsOrigins" json:"corsOrigins"`
        RequestTimeout  Duration `yaml:"requestTimeout" json:"requestTimeout"`
        Heartbeat       Duration `yaml:"heartbeat" json:"heartbeat"`
        ShutdownTimeout Duration `yaml:"shutdownTimeout" json:"shutdownTimeout"`
    } `yaml:"http" json:"http"`

    UploadsDir string `yaml:"uploadsDir" json:"uploadsDir"`
    Verbose    bool   `yaml:"verbose" json:"verbose"`
}

// Duration accepts Go duration strings such as "45s" in both YAML and JSON.
type Duration time.Duration

func (d *Duration) set(s string) error {
    s = strings.TrimSpace(s)
    if s == "" {
        *d = 0
        return nil
    }
    v, err := time.ParseDuration(s)
    if err != nil {
        return err
    }
    *d = Duration(v)
    return nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
    return d.set(node.Value)
}

func (d *Duration) UnmarshalJSON(b []byte) error {
    var s string
    if err := json.Unmarshal(b, &s); err != nil {
        return fmt.Errorf("duration must be a string: %w", err)
    }
    return d.set(s)
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
    var fc FileConfig
    b, err := os.ReadFile(path)
    if err != nil {
        return fc, err
    }
    switch ext := strings.ToLower(filepath.Ext(path)); ext {
    case ".yaml", ".yml":
        if err := yaml.Unmarshal(b, &fc); err != nil {
            return fc, fmt.Errorf("parse yaml: %w", err)
        }
    case ".json":
        if err := json.Unmarshal(b, &fc); err != nil {
            return fc, fmt.Errorf("parse json: %w", err)
        }
    default:
        // Try YAML then JSON
        if err := yaml.Unmarshal(b, &fc); err != nil {
            if jerr := json.Unmarshal(b, &fc); jerr != nil {
                return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
            }
        }
    }
    return fc, nil
}

// ApplyFileConfig overlays every value set in fc onto cfg. It runs on top of
// DefaultConfig and before env and flags, which take precedence.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
    if cfg == nil { return }

    if fc.LLM.BaseURL != "" { cfg.LLMBaseURL = fc.LLM.BaseURL }
    if fc.LLM.Model != "" { cfg.LLMModel = fc.LLM.Model }
    if fc.LLM.BundleModel != "" { cfg.LLMBundleModel = fc.LLM.BundleModel }
    if fc.LLM.APIKey != "" { cfg.LLMAPIKey = fc.LLM.APIKey }
    if fc.LLM.ChatContextTokens > 0 { cfg.ChatContextTokens = fc.LLM.ChatContextTokens }

    if fc.HTTP.Addr != "" { cfg.Addr = fc.HTTP.Addr }
    if len(fc.HTTP.CORSOrigins) > 0 { cfg.CORSOrigins = append([]string{}, fc.HTTP.CORSOrigins...) }
    if fc.HTTP.RequestTimeout > 0 { cfg.RequestTimeout = time.Duration(fc.HTTP.RequestTimeout) }
    if fc.HTTP.Heartbeat > 0 { cfg.Heartbeat = time.Duration(fc.HTTP.Heartbeat) }
    if fc.HTTP.ShutdownTimeout > 0 { cfg.ShutdownTimeout = time.Duration(fc.HTTP.ShutdownTimeout) }

    if fc.UploadsDir != "" { cfg.UploadsDir = fc.UploadsDir }
    if fc.Verbose { cfg.Verbose = true }
}

// LoadConfig layers defaults, the optional config file and the environment.
// Flags are applied by the caller afterwards.
func LoadConfig(path string) (Config, error) {
    cfg := DefaultConfig()
    if strings.TrimSpace(path) != "" {
        fc, err := LoadConfigFile(path)
        if err != nil {
            return cfg, fmt.Errorf("load config %s: %w", path, err)
        }
        ApplyFileConfig(&cfg, fc)
    }
    if err := ApplyEnv(&cfg); err != nil {
        return cfg, err
    }
    return cfg, nil
}
