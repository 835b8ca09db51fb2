package core

import (
	"fmt"

	"github.com/google/uuid"
)

// AssetID is a stable, path-independent identity for a file-backed payload.
// It is minted once when the asset is created and persisted in the sidecar
// metadata record; renaming or moving the backing file must not change it.
type AssetID uuid.UUID

// NewAssetID mints a fresh random identity.
func NewAssetID() AssetID {
	return AssetID(uuid.New())
}

// ParseAssetID parses the canonical string form.
func ParseAssetID(s string) (AssetID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return AssetID{}, fmt.Errorf("invalid asset id %q: %w", s, err)
	}
	return AssetID(id), nil
}

func (id AssetID) String() string {
	return uuid.UUID(id).String()
}

// IsZero reports whether the id is the zero value (no identity assigned).
func (id AssetID) IsZero() bool {
	return uuid.UUID(id) == uuid.Nil
}

// MarshalText implements encoding.TextMarshaler so JSON sidecars and map keys
// carry the canonical string form.
func (id AssetID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *AssetID) UnmarshalText(data []byte) error {
	parsed, err := ParseAssetID(string(data))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler. yaml.v3 does not honor TextMarshaler,
// and the raw [16]byte array would serialize as a list of ints.
func (id AssetID) MarshalYAML() (any, error) {
	return id.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (id *AssetID) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseAssetID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// AssetMetadata is the descriptive, mutable envelope around an asset. It is
// stored separately from the payload (sidecar record) so the summary index can
// be built without any payload I/O.
type AssetMetadata struct {
	ID       AssetID `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Category string  `json:"category,omitempty" yaml:"category,omitempty"`
}

// AssetSummary is the unit of the lazily-built index: identity, metadata, and
// the backing file path, without the payload.
type AssetSummary struct {
	ID       AssetID
	Metadata AssetMetadata
	Path     string
}

// Asset is the fully-loaded unit, obtained on demand and cached.
type Asset[V any] struct {
	ID       AssetID
	Metadata AssetMetadata
	Payload  V
	Path     string
}

// Summary strips the payload.
func (a Asset[V]) Summary() AssetSummary {
	return AssetSummary{ID: a.ID, Metadata: a.Metadata, Path: a.Path}
}
