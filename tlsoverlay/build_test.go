package tlsoverlay_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/momentics/netkit/tlsoverlay"
)

// writeSelfSignedPair generates an ECDSA self-signed cert/key pair and
// writes it as PEM files under dir, returning their paths.
func writeSelfSignedPair(t *testing.T, dir string) (certFile, keyFile string) {
	t.Helper()
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "netkit-test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &priv.PublicKey, priv)
	require.NoError(t, err)

	certFile = filepath.Join(dir, "cert.pem")
	keyFile = filepath.Join(dir, "key.pem")

	certOut, err := os.Create(certFile)
	require.NoError(t, err)
	require.NoError(t, pem.Encode(certOut, &pem.Block{Type: "CERTIFICATE", Bytes: der}))
	require.NoError(t, certOut.Close())

	keyBytes, err := x509.MarshalECPrivateKey(priv)
	require.NoError(t, err)
	keyOut, err := os.Create(keyFile)
	require.NoError(t, err)
	require.NoError(t, pem.Encode(keyOut, &pem.Block{Type: "EC PRIVATE KEY", Bytes: keyBytes}))
	require.NoError(t, keyOut.Close())

	return certFile, keyFile
}

func TestBuildLoadsCertificates(t *testing.T) {
	dir := t.TempDir()
	certFile, keyFile := writeSelfSignedPair(t, dir)

	cfg := tlsoverlay.Config{
		Certs:      []tlsoverlay.CertPair{{CertFile: certFile, KeyFile: keyFile}},
		VersionMin: "1.2",
		VersionMax: "1.3",
	}

	out, err := cfg.Build()
	require.NoError(t, err)
	require.Len(t, out.Certificates, 1)
}

func TestBuildRejectsUnknownCipherSuite(t *testing.T) {
	cfg := tlsoverlay.Config{CipherSuites: []string{"NOT_A_REAL_SUITE"}}
	_, err := cfg.Build()
	require.Error(t, err)
}

func TestBuildRejectsUnknownCurve(t *testing.T) {
	cfg := tlsoverlay.Config{CurvePreferences: []string{"P999"}}
	_, err := cfg.Build()
	require.Error(t, err)
}

func TestBuildLoadsRootCA(t *testing.T) {
	dir := t.TempDir()
	certFile, _ := writeSelfSignedPair(t, dir)

	cfg := tlsoverlay.Config{RootCAFiles: []string{certFile}}
	out, err := cfg.Build()
	require.NoError(t, err)
	require.NotNil(t, out.RootCAs)
}

func TestBuildEmptyConfigIsUsable(t *testing.T) {
	out, err := tlsoverlay.Config{}.Build()
	require.NoError(t, err)
	require.Empty(t, out.Certificates)
}
