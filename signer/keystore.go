package feedsigner

import (
	"bytes"
	"crypto"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"

	keystore "github.com/pavlo-v-chernykh/keystore-go/v4"
	"software.sslmate.com/src/go-pkcs12"
)

// DefaultKeystorePassword is the store password I2P tooling uses for JKS
// files when none is configured.
const DefaultKeystorePassword = "changeit"

// LoadKey reads an RSA signing key from path. PEM files (PKCS#1 or PKCS#8),
// Java keystores (magic 0xFEEDFEED) and PKCS#12 bundles (DER SEQUENCE) are
// recognized by content, not by extension. storePassword unlocks a keystore
// container, entryPassword a JKS key entry, and alias picks the JKS entry;
// an empty alias takes the first private key.
func LoadKey(path, storePassword, entryPassword, alias string) (*rsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadKey: %w", err)
	}
	var signer crypto.Signer
	switch {
	case bytes.Contains(data, []byte("-----BEGIN")):
		signer, err = loadPEM(data)
	case len(data) >= 4 && bytes.Equal(data[:4], []byte{0xFE, 0xED, 0xFE, 0xED}):
		if storePassword == "" {
			storePassword = DefaultKeystorePassword
		}
		signer, err = loadJKS(data, storePassword, entryPassword, alias)
	case len(data) > 0 && data[0] == 0x30:
		if storePassword == "" {
			storePassword = DefaultKeystorePassword
		}
		signer, err = loadPKCS12(data, storePassword)
	default:
		err = fmt.Errorf("unrecognised key format")
	}
	if err != nil {
		return nil, fmt.Errorf("LoadKey: %s: %w", path, err)
	}
	key, ok := signer.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("LoadKey: %s: su3 feeds need an RSA key, got %T", path, signer)
	}
	return key, nil
}

func loadPEM(data []byte) (crypto.Signer, error) {
	for len(data) > 0 {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		switch block.Type {
		case "RSA PRIVATE KEY", "PRIVATE KEY", "EC PRIVATE KEY":
			return parseKeyDER(block.Bytes)
		}
	}
	return nil, fmt.Errorf("no private key PEM block")
}

func loadJKS(data []byte, storePassword, entryPassword, alias string) (crypto.Signer, error) {
	ks := keystore.New()
	if err := ks.Load(bytes.NewReader(data), []byte(storePassword)); err != nil {
		return nil, fmt.Errorf("JKS load: %w", err)
	}
	if alias == "" {
		for _, a := range ks.Aliases() {
			if ks.IsPrivateKeyEntry(a) {
				alias = a
				break
			}
		}
	}
	if alias == "" {
		return nil, fmt.Errorf("JKS: no private key entry")
	}
	entry, err := ks.GetPrivateKeyEntry(alias, []byte(entryPassword))
	if err != nil {
		return nil, fmt.Errorf("JKS get key %q: %w", alias, err)
	}
	return parseKeyDER(entry.PrivateKey)
}

func loadPKCS12(data []byte, password string) (crypto.Signer, error) {
	key, _, err := pkcs12.Decode(data, password)
	if err != nil {
		return nil, fmt.Errorf("PKCS12 decode: %w", err)
	}
	s, ok := key.(crypto.Signer)
	if !ok {
		return nil, fmt.Errorf("PKCS12: key type %T is not a crypto.Signer", key)
	}
	return s, nil
}

// parseKeyDER tries PKCS#8, PKCS#1 and SEC 1 in that order.
func parseKeyDER(der []byte) (crypto.Signer, error) {
	if parsed, err := x509.ParsePKCS8PrivateKey(der); err == nil {
		if s, ok := parsed.(crypto.Signer); ok {
			return s, nil
		}
	}
	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, nil
	}
	if key, err := x509.ParseECPrivateKey(der); err == nil {
		return key, nil
	}
	return nil, fmt.Errorf("cannot parse DER private key")
}
