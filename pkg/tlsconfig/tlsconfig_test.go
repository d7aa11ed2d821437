package tlsconfig

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type testPKI struct {
	cert, key, ca string
}

func writePEM(t *testing.T, path, typ string, der []byte) {
	t.Helper()
	data := pem.EncodeToMemory(&pem.Block{Type: typ, Bytes: der})
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// newTestPKI writes a CA and a leaf certificate signed by it into a temp dir
func newTestPKI(t *testing.T) testPKI {
	t.Helper()
	dir := t.TempDir()

	caKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate CA key: %v", err)
	}
	caTmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "test-ca"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		IsCA:                  true,
		KeyUsage:              x509.KeyUsageCertSign,
		BasicConstraintsValid: true,
	}
	caDER, err := x509.CreateCertificate(rand.Reader, caTmpl, caTmpl, &caKey.PublicKey, caKey)
	if err != nil {
		t.Fatalf("create CA cert: %v", err)
	}

	leafKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate leaf key: %v", err)
	}
	leafTmpl := &x509.Certificate{
		SerialNumber: big.NewInt(2),
		Subject:      pkix.Name{CommonName: "sensor-service"},
		DNSNames:     []string{"localhost"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
	}
	leafDER, err := x509.CreateCertificate(rand.Reader, leafTmpl, caTmpl, &leafKey.PublicKey, caKey)
	if err != nil {
		t.Fatalf("create leaf cert: %v", err)
	}
	keyDER, err := x509.MarshalECPrivateKey(leafKey)
	if err != nil {
		t.Fatalf("marshal leaf key: %v", err)
	}

	pki := testPKI{
		cert: filepath.Join(dir, "service.crt"),
		key:  filepath.Join(dir, "service.key"),
		ca:   filepath.Join(dir, "ca.crt"),
	}
	writePEM(t, pki.ca, "CERTIFICATE", caDER)
	writePEM(t, pki.cert, "CERTIFICATE", leafDER)
	writePEM(t, pki.key, "EC PRIVATE KEY", keyDER)
	return pki
}

func TestLoadServerTLS(t *testing.T) {
	pki := newTestPKI(t)

	cfg, err := LoadServerTLS(pki.cert, pki.key, pki.ca)
	if err != nil {
		t.Fatalf("LoadServerTLS failed: %v", err)
	}
	if cfg.ClientAuth != tls.RequireAndVerifyClientCert {
		t.Errorf("expected client certs to be required, got %v", cfg.ClientAuth)
	}
	if cfg.ClientCAs == nil || len(cfg.Certificates) != 1 {
		t.Error("expected CA pool and one certificate")
	}
	if cfg.MinVersion != tls.VersionTLS12 {
		t.Errorf("expected TLS 1.2 minimum, got %#x", cfg.MinVersion)
	}
}

func TestLoadClientTLS(t *testing.T) {
	pki := newTestPKI(t)

	cfg, err := LoadClientTLS(pki.cert, pki.key, pki.ca)
	if err != nil {
		t.Fatalf("LoadClientTLS failed: %v", err)
	}
	if cfg.RootCAs == nil || len(cfg.Certificates) != 1 {
		t.Error("expected root CA pool and one certificate")
	}
}

func TestLoadTLS_Errors(t *testing.T) {
	pki := newTestPKI(t)

	if _, err := LoadServerTLS(pki.cert, pki.key, filepath.Join(t.TempDir(), "missing.crt")); err == nil {
		t.Error("expected error for missing CA file")
	}
	if _, err := LoadClientTLS(pki.ca, pki.key, pki.ca); err == nil {
		t.Error("expected error for mismatched key pair")
	}

	// a key file is valid PEM but holds no certificate
	_, err := LoadServerTLS(pki.cert, pki.key, pki.key)
	if !errors.Is(err, ErrBadCA) {
		t.Errorf("expected ErrBadCA, got %v", err)
	}
}
