// Package sign writes and checks ASCII-armoured detached OpenPGP
// signatures for built packages.
package sign

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/ProtonMail/go-crypto/openpgp"
)

// Extension is appended to a package path to name its signature
const Extension = ".asc"

// ErrSignature is returned when a signature does not match
var ErrSignature = errors.New("signature verification failed")

// ErrNoSigningKey is returned when a keyring has no usable private key
var ErrNoSigningKey = errors.New("no private key found")

// SignFile writes path+".asc" signed with the first private key in the
// armoured keyring at keyPath and returns the signature path
func SignFile(path, keyPath, passphrase string) (string, error) {
	signer, err := loadSigner(keyPath, passphrase)
	if err != nil {
		return "", err
	}

	in, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer in.Close()

	sigPath := path + Extension
	out, err := os.Create(sigPath)
	if err != nil {
		return "", fmt.Errorf("creating signature: %w", err)
	}

	if err := openpgp.ArmoredDetachSign(out, signer, in, nil); err != nil {
		out.Close()
		os.Remove(sigPath)
		return "", fmt.Errorf("signing %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(sigPath)
		return "", fmt.Errorf("writing signature: %w", err)
	}
	return sigPath, nil
}

func loadSigner(keyPath, passphrase string) (*openpgp.Entity, error) {
	kf, err := os.Open(keyPath)
	if err != nil {
		return nil, fmt.Errorf("opening signing key: %w", err)
	}
	defer kf.Close()

	keyring, err := openpgp.ReadArmoredKeyRing(kf)
	if err != nil {
		return nil, fmt.Errorf("loading signing key: %w", err)
	}

	for _, e := range keyring {
		if e.PrivateKey == nil {
			continue
		}
		if e.PrivateKey.Encrypted {
			if err := e.PrivateKey.Decrypt([]byte(passphrase)); err != nil {
				return nil, fmt.Errorf("decrypting signing key: %w", err)
			}
		}
		for _, sub := range e.Subkeys {
			if sub.PrivateKey != nil && sub.PrivateKey.Encrypted {
				if err := sub.PrivateKey.Decrypt([]byte(passphrase)); err != nil {
					return nil, fmt.Errorf("decrypting signing subkey: %w", err)
				}
			}
		}
		return e, nil
	}
	return nil, fmt.Errorf("%w in %s", ErrNoSigningKey, keyPath)
}

// VerifyFile checks the detached signature at sigPath against path using
// the armoured public keyring at keyringPath. sigPath defaults to
// path+".asc". It returns the signer's identity.
func VerifyFile(path, sigPath, keyringPath string) (string, error) {
	if sigPath == "" {
		sigPath = path + Extension
	}

	kf, err := os.Open(keyringPath)
	if err != nil {
		return "", fmt.Errorf("opening public key: %w", err)
	}
	defer kf.Close()

	keyring, err := openpgp.ReadArmoredKeyRing(kf)
	if err != nil {
		return "", fmt.Errorf("loading keyring: %w", err)
	}

	signed, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer signed.Close()

	sig, err := os.Open(sigPath)
	if err != nil {
		return "", fmt.Errorf("opening signature: %w", err)
	}
	defer sig.Close()

	signer, err := openpgp.CheckArmoredDetachedSignature(keyring, signed, sig, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSignature, err)
	}
	return Identity(signer), nil
}

// Identity returns the primary identity name of e, or its key ID
func Identity(e *openpgp.Entity) string {
	if e == nil {
		return ""
	}
	names := make([]string, 0, len(e.Identities))
	for name, id := range e.Identities {
		if id.SelfSignature != nil && id.SelfSignature.IsPrimaryId != nil && *id.SelfSignature.IsPrimaryId {
			return name
		}
		names = append(names, name)
	}
	if len(names) > 0 {
		sort.Strings(names)
		return names[0]
	}
	return fmt.Sprintf("%016X", e.PrimaryKey.KeyId)
}
