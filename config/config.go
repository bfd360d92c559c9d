// Package config provides the configuration of the message decoder.
package config

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/effective-security/x/configloader"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config of the message decoder.
// Pass phrases accept the env:// and file:// schemas.
type Config struct {
	// VerifyIntegrity requests integrity verification, which is not supported.
	VerifyIntegrity bool `json:"verify_integrity" yaml:"verify_integrity"`
	// SecringPath is the secret key ring location.
	// Empty selects the GnuPG default.
	SecringPath string `json:"secring_path" yaml:"secring_path"`
	// KeyPassphrase unlocks the private keys of the key ring.
	KeyPassphrase string `json:"key_passphrase" yaml:"key_passphrase"`
	// DecryptPassphrase decrypts passphrase-encrypted messages.
	DecryptPassphrase string `json:"decrypt_passphrase" yaml:"decrypt_passphrase"`
	// EncryptPassphrase is used when DecryptPassphrase is not set.
	EncryptPassphrase string `json:"encrypt_passphrase" yaml:"encrypt_passphrase"`
}

// LoadConfig returns configuration loaded from a file
func LoadConfig(file string) (*Config, error) {
	if file == "" {
		return &Config{}, nil
	}

	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var config Config
	if strings.HasSuffix(file, ".json") {
		err = json.Unmarshal(raw, &config)
		if err != nil {
			return nil, errors.WithMessagef(err, "unable to unmarshal JSON: %q", file)
		}
	} else {
		err = yaml.Unmarshal(raw, &config)
		if err != nil {
			return nil, errors.WithMessagef(err, "unable to unmarshal YAML: %q", file)
		}
	}

	if err = config.ResolveSecrets(); err != nil {
		return nil, errors.WithMessagef(err, "invalid config: %q", file)
	}
	return &config, nil
}

// ResolveSecrets replaces env:// and file:// references in the pass
// phrases with their values.
func (c *Config) ResolveSecrets() error {
	for name, val := range map[string]*string{
		"key_passphrase":     &c.KeyPassphrase,
		"decrypt_passphrase": &c.DecryptPassphrase,
		"encrypt_passphrase": &c.EncryptPassphrase,
	} {
		if *val == "" {
			continue
		}
		resolved, err := configloader.ResolveValue(*val)
		if err != nil {
			return errors.WithMessagef(err, "unable to resolve %s", name)
		}
		*val = resolved
	}
	return nil
}

// DecryptionPassphrase returns the pass phrase for passphrase-encrypted
// messages.
func (c *Config) DecryptionPassphrase() []byte {
	if c.DecryptPassphrase != "" {
		return []byte(c.DecryptPassphrase)
	}
	if c.EncryptPassphrase != "" {
		return []byte(c.EncryptPassphrase)
	}
	return nil
}
