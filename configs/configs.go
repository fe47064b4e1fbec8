// Package configs embeds configuration files for use at runtime.
package configs

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
)

// HooksSettings is the assistant settings snippet that runs `pappardelle hook`
// on every event the status writer understands.
//
//go:embed hooks.json
var HooksSettings []byte

// HooksSettingsHash returns a 12-character hash of the embedded snippet, so
// users can tell whether an installed copy is current.
func HooksSettingsHash() string {
	hash := sha256.Sum256(HooksSettings)
	return hex.EncodeToString(hash[:])[:12]
}
