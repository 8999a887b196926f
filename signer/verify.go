package feedsigner

import (
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"

	"i2pgit.org/go-i2p/reseed-tools/su3"
)

// su3Magic is the identity prefix every su3 file starts with.
const su3Magic = "I2Psu3"

// VerifyAndUnpack parses su3 bytes, checks the signature against at least
// one of certs and returns the inner feed. Verification is skipped when certs
// is empty.
func VerifyAndUnpack(data []byte, certs []*x509.Certificate) ([]byte, error) {
	if len(data) < len(su3Magic) || string(data[:len(su3Magic)]) != su3Magic {
		return nil, fmt.Errorf("VerifyAndUnpack: not a su3 file")
	}
	f := su3.New()
	if err := f.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("VerifyAndUnpack: %w", err)
	}
	if len(certs) == 0 {
		return f.Content, nil
	}
	var lastErr error
	for _, c := range certs {
		if lastErr = f.VerifySignature(c); lastErr == nil {
			return f.Content, nil
		}
	}
	return nil, fmt.Errorf("VerifyAndUnpack: signature verification failed: %w", lastErr)
}

// VerifyFile is VerifyAndUnpack over the file at path.
func VerifyFile(path string, certs []*x509.Certificate) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("VerifyFile: %w", err)
	}
	return VerifyAndUnpack(data, certs)
}

func parseCertificatesFromPEM(raw []byte, path string) ([]*x509.Certificate, error) {
	var certs []*x509.Certificate
	for len(raw) > 0 {
		var block *pem.Block
		block, raw = pem.Decode(raw)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		c, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("parse cert in %s: %w", path, err)
		}
		certs = append(certs, c)
	}
	return certs, nil
}

// LoadCertificates reads PEM certificates from paths. At least one must be
// found across all files.
func LoadCertificates(paths []string) ([]*x509.Certificate, error) {
	var certs []*x509.Certificate
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadCertificates: %w", err)
		}
		parsed, err := parseCertificatesFromPEM(raw, path)
		if err != nil {
			return nil, fmt.Errorf("LoadCertificates: %w", err)
		}
		certs = append(certs, parsed...)
	}
	if len(certs) == 0 {
		return nil, fmt.Errorf("LoadCertificates: no certificates found in %v", paths)
	}
	return certs, nil
}
