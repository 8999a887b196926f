// Package feedsigner wraps built XML feeds into signed su3 containers so
// they can be mirrored to I2P news-style update servers, and verifies the
// result against trusted certificates.
package feedsigner

import (
	"crypto/rsa"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"i2pgit.org/go-i2p/reseed-tools/su3"

	"github.com/go-i2p/weblog/feed"
)

type FeedSigner struct {
	SignerID   string
	SigningKey *rsa.PrivateKey
}

// Su3Path maps a feed path to its su3 sibling: rss.xml -> rss.su3. Paths
// that do not end in ".xml" are rejected so a source file is never
// overwritten with binary data.
func Su3Path(xmlPath string) (string, error) {
	base := filepath.Base(xmlPath)
	if !strings.HasSuffix(base, ".xml") || base == ".xml" {
		return "", fmt.Errorf("Su3Path: %q does not end in .xml", xmlPath)
	}
	return strings.TrimSuffix(xmlPath, ".xml") + ".su3", nil
}

// CreateSu3 signs the XML file at xmlPath and writes the container next to
// it, returning the output path.
func (fs *FeedSigner) CreateSu3(xmlPath string) (string, error) {
	if fs.SigningKey == nil {
		return "", fmt.Errorf("CreateSu3: no signing key")
	}
	out, err := Su3Path(xmlPath)
	if err != nil {
		return "", fmt.Errorf("CreateSu3: %w", err)
	}
	data, err := os.ReadFile(xmlPath)
	if err != nil {
		return "", fmt.Errorf("CreateSu3: %w", err)
	}

	su3File := su3.New()
	su3File.FileType = su3.FileTypeXML
	su3File.ContentType = su3.ContentTypeNews
	su3File.Content = data
	su3File.SignerID = []byte(fs.SignerID)
	if err := su3File.Sign(fs.SigningKey); err != nil {
		return "", fmt.Errorf("CreateSu3: sign %s: %w", xmlPath, err)
	}
	b, err := su3File.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("CreateSu3: %w", err)
	}
	if err := os.WriteFile(out, b, 0o644); err != nil {
		return "", fmt.Errorf("CreateSu3: %w", err)
	}
	return out, nil
}

// FeedFiles returns the XML feeds a build writes into buildDir, in format
// order, skipping any that are missing.
func FeedFiles(buildDir string) []string {
	var files []string
	for _, f := range feed.Formats() {
		p := filepath.Join(buildDir, filepath.FromSlash(strings.TrimPrefix(f.Path(), "/")))
		if !strings.HasSuffix(p, ".xml") {
			continue
		}
		if fi, err := os.Stat(p); err == nil && fi.Mode().IsRegular() {
			files = append(files, p)
		}
	}
	return files
}

// SignBuild signs every XML feed found in buildDir. When buildDir is a single
// file only that file is signed.
func (fs *FeedSigner) SignBuild(buildDir string) ([]string, error) {
	fi, err := os.Stat(buildDir)
	if err != nil {
		return nil, fmt.Errorf("SignBuild: %w", err)
	}
	inputs := []string{buildDir}
	if fi.IsDir() {
		inputs = FeedFiles(buildDir)
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("SignBuild: no feeds found in %s", buildDir)
	}
	var outs []string
	for _, in := range inputs {
		out, err := fs.CreateSu3(in)
		if err != nil {
			return outs, fmt.Errorf("SignBuild: %w", err)
		}
		outs = append(outs, out)
	}
	return outs, nil
}
