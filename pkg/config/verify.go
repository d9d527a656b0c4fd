package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/invopop/jsonschema"
)

//go:embed schema.json
var embeddedSchema string

// VerifyAgainstEmbeddedSchema validates the config against the embedded JSON schema
func VerifyAgainstEmbeddedSchema(cfg *Config) error {
	var schema map[string]any
	if err := json.Unmarshal([]byte(embeddedSchema), &schema); err != nil {
		return fmt.Errorf("parse embedded schema: %w", err)
	}

	// config must survive a JSON round trip and expose every top-level section of the schema
	configData, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	var configMap map[string]any
	if err := json.Unmarshal(configData, &configMap); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	for _, section := range schemaSections(schema) {
		if _, ok := configMap[section]; !ok {
			return fmt.Errorf("section %q missing from config", section)
		}
	}

	if err := validateRequiredFields(cfg); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return nil
}

// schemaSections returns property names of the Config definition in the schema
func schemaSections(schema map[string]any) []string {
	defs, _ := schema["$defs"].(map[string]any)
	cfgDef, _ := defs["Config"].(map[string]any)
	props, _ := cfgDef["properties"].(map[string]any)
	res := make([]string, 0, len(props))
	for name := range props {
		res = append(res, name)
	}
	slices.Sort(res)
	return res
}

// validateRequiredFields performs basic validation of required fields
func validateRequiredFields(cfg *Config) error {
	if cfg.Server.Listen == "" {
		return fmt.Errorf("server.listen is required")
	}
	if cfg.Server.Timeout == 0 {
		return fmt.Errorf("server.timeout is required")
	}
	if cfg.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if len(cfg.Restrictions.Choice.Values) == 0 {
		return fmt.Errorf("restrictions.choice.values is required")
	}
	if len(cfg.Restrictions.Multi.Values) == 0 {
		return fmt.Errorf("restrictions.multi.values is required")
	}
	return nil
}

// GenerateSchema generates a JSON schema for the Config struct
func GenerateSchema() (*jsonschema.Schema, error) {
	return jsonschema.Reflect(&Config{}), nil
}
