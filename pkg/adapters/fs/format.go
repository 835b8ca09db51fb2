package fs

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Format defines how payloads are encoded on disk.
type Format interface {
	// Marshal converts a value to bytes.
	Marshal(v any) ([]byte, error)
	// Unmarshal decodes bytes into v.
	Unmarshal(data []byte, v any) error
	// Ext returns the file extension including the dot, e.g. ".yaml".
	Ext() string
}

// YAML encodes payloads as YAML. It is the default format.
type YAML struct{}

func (YAML) Marshal(v any) ([]byte, error)      { return yaml.Marshal(v) }
func (YAML) Unmarshal(data []byte, v any) error { return yaml.Unmarshal(data, v) }
func (YAML) Ext() string                        { return ".yaml" }

// JSON encodes payloads as indented JSON.
type JSON struct{}

func (JSON) Marshal(v any) ([]byte, error)      { return json.MarshalIndent(v, "", "  ") }
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (JSON) Ext() string                        { return ".json" }

// DefaultFormat returns the format used when none is configured.
func DefaultFormat() Format { return YAML{} }
