package domain

import "time"

// Setting represents a key-value configuration setting
type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// setting keys
const (
	// SettingCustomConfig is the local flag telling the query responder to redirect to the custom form
	SettingCustomConfig = "custom_config"
)
