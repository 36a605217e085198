package vault

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	kerrors "github.com/PolarWolf314/rssh/internal/errors"
)

// Marshal encodes v as TOML. The vault must satisfy Validate, and the
// encoded form must decode again.
func Marshal(v *Vault) ([]byte, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode vault: %w", err)
	}
	if _, err := Unmarshal(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("encoded vault cannot be read back: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a TOML payload produced by Marshal. Any parse failure,
// unknown key, missing gatekeeper field or invariant violation is reported
// as ErrSchema.
func Unmarshal(data []byte) (*Vault, error) {
	v := &Vault{}
	md, err := toml.Decode(string(data), v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrSchema, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("%w: unknown keys %s", kerrors.ErrSchema, strings.Join(keys, ", "))
	}

	for _, key := range []string{"passphrase", "policy"} {
		if !md.IsDefined(key) {
			return nil, fmt.Errorf("%w: missing %q", kerrors.ErrSchema, key)
		}
	}

	v.Normalize()
	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", kerrors.ErrSchema, err)
	}

	return v, nil
}
