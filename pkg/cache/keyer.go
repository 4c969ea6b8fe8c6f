package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey identifies one rendered output of a document.
	ArtifactKey(docHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts holds the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Scale      float64 `json:"scale,omitempty"`
	Margin     float64 `json:"margin,omitempty"`
	Background string  `json:"background,omitempty"`
	HideLabels bool    `json:"hide_labels,omitempty"`
	DPI        float64 `json:"dpi,omitempty"`
	ShowIDs    bool    `json:"show_ids,omitempty"`
	Engine     string  `json:"engine,omitempty"`
}

// Hash returns the hex SHA-256 of data. Runners hash serialized documents
// with it and the file cache names its entries by it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DefaultKeyer hashes options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey returns "artifact:<sha256>" over the document hash and opts.
func (DefaultKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	payload, _ := json.Marshal(struct {
		Doc  string          `json:"doc"`
		Opts ArtifactKeyOpts `json:"opts"`
	}{docHash, opts})
	return "artifact:" + Hash(payload)
}

// ScopedKeyer puts a fixed namespace in front of another keyer's keys.
// The CLI scopes by release so that an upgraded renderer never serves
// artifacts drawn by an older one.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer scopes inner, or a DefaultKeyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	return ScopedKeyer{inner: inner, prefix: prefix}
}

func (k ScopedKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(docHash, opts)
}
