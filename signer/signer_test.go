package feedsigner

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func generateTestKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate RSA key: %v", err)
	}
	return key
}

func selfSignedCert(t *testing.T, key *rsa.PrivateKey) *x509.Certificate {
	t.Helper()
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "feeds@blog.example"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("create certificate: %v", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("parse certificate: %v", err)
	}
	return cert
}

func TestSu3Path(t *testing.T) {
	tests := []struct {
		in, want string
		wantErr  bool
	}{
		{in: "build/rss.xml", want: "build/rss.su3"},
		{in: "atom.xml", want: "atom.su3"},
		{in: "rss.json", wantErr: true},
		{in: "feed", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := Su3Path(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Su3Path(%q) error = %v; wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("Su3Path(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestCreateSu3_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	key := generateTestKey(t)
	xmlPath := filepath.Join(dir, "rss.xml")
	payload := []byte("<rss version=\"2.0\"/>")
	if err := os.WriteFile(xmlPath, payload, 0o644); err != nil {
		t.Fatal(err)
	}
	fs := &FeedSigner{SignerID: "feeds@blog.example", SigningKey: key}
	out, err := fs.CreateSu3(xmlPath)
	if err != nil {
		t.Fatalf("CreateSu3: %v", err)
	}
	if out != filepath.Join(dir, "rss.su3") {
		t.Errorf("CreateSu3 output = %q", out)
	}
	src, _ := os.ReadFile(xmlPath)
	if string(src) != string(payload) {
		t.Error("CreateSu3 modified its input")
	}

	got, err := VerifyFile(out, []*x509.Certificate{selfSignedCert(t, key)})
	if err != nil {
		t.Fatalf("VerifyFile: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("unpacked content = %q; want %q", got, payload)
	}
}

func TestVerify_WrongCert(t *testing.T) {
	dir := t.TempDir()
	xmlPath := filepath.Join(dir, "atom.xml")
	if err := os.WriteFile(xmlPath, []byte("<feed/>"), 0o644); err != nil {
		t.Fatal(err)
	}
	fs := &FeedSigner{SignerID: "feeds@blog.example", SigningKey: generateTestKey(t)}
	out, err := fs.CreateSu3(xmlPath)
	if err != nil {
		t.Fatalf("CreateSu3: %v", err)
	}
	other := selfSignedCert(t, generateTestKey(t))
	if _, err := VerifyFile(out, []*x509.Certificate{other}); err == nil {
		t.Fatal("VerifyFile accepted a signature from the wrong key")
	}
}

func TestVerifyAndUnpack_Garbage(t *testing.T) {
	if _, err := VerifyAndUnpack([]byte("not an su3 file"), nil); err == nil {
		t.Fatal("expected error for garbage input")
	}
}

func TestCreateSu3_NoKey(t *testing.T) {
	fs := &FeedSigner{SignerID: "x"}
	if _, err := fs.CreateSu3("rss.xml"); err == nil {
		t.Fatal("expected error without a signing key")
	}
}

func TestSignBuild(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"rss.xml", "atom.xml", "rss.json", "sitemap.xml"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("<x/>"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	fs := &FeedSigner{SignerID: "feeds@blog.example", SigningKey: generateTestKey(t)}
	outs, err := fs.SignBuild(dir)
	if err != nil {
		t.Fatalf("SignBuild: %v", err)
	}
	want := []string{filepath.Join(dir, "rss.su3"), filepath.Join(dir, "atom.su3")}
	if len(outs) != len(want) {
		t.Fatalf("SignBuild outputs = %v; want %v", outs, want)
	}
	for i := range want {
		if outs[i] != want[i] {
			t.Errorf("outs[%d] = %q; want %q", i, outs[i], want[i])
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "sitemap.su3")); err == nil {
		t.Error("sitemap.xml should not be signed")
	}
}

func TestSignBuild_Empty(t *testing.T) {
	fs := &FeedSigner{SignerID: "x", SigningKey: generateTestKey(t)}
	if _, err := fs.SignBuild(t.TempDir()); err == nil {
		t.Fatal("expected error for a build dir without feeds")
	}
}
