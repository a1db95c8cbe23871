// Package tlsoverlay builds *tls.Config values for the TLS handshake
// overlay (spec §4.6): certificates, CA bundles, cipher suites, curve
// preferences and protocol version bounds, modeled on nabbar-golib's
// certificates.Config (the pack's only TLS-configuration subsystem) but
// built entirely on crypto/tls and crypto/x509 since TLS cryptography
// itself is explicitly out of core scope per spec §1.
package tlsoverlay

import (
	"crypto/tls"
)

// ClientAuthMode mirrors crypto/tls.ClientAuthType under names that match
// nabbar-golib/certificates/auth's enumeration.
type ClientAuthMode int

const (
	NoClientCert ClientAuthMode = iota
	RequestClientCert
	RequireAnyClientCert
	VerifyClientCertIfGiven
	RequireAndVerifyClientCert
)

func (m ClientAuthMode) toStd() tls.ClientAuthType {
	switch m {
	case RequestClientCert:
		return tls.RequestClientCert
	case RequireAnyClientCert:
		return tls.RequireAnyClientCert
	case VerifyClientCertIfGiven:
		return tls.VerifyClientCertIfGiven
	case RequireAndVerifyClientCert:
		return tls.RequireAndVerifyClientCert
	default:
		return tls.NoClientCert
	}
}

// CertPair names a PEM certificate/key file pair on disk.
type CertPair struct {
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// Config is the YAML-loadable TLS configuration consumed by netsrv and
// netclient. The zero value is a minimal client-side config with no
// certificates and the Go default cipher/curve/version selection.
type Config struct {
	Certs            []CertPair     `yaml:"certs"`
	RootCAFiles      []string       `yaml:"root_ca_files"`
	ClientCAFiles    []string       `yaml:"client_ca_files"`
	CipherSuites     []string       `yaml:"cipher_suites"`
	CurvePreferences []string       `yaml:"curve_preferences"`
	VersionMin       string         `yaml:"version_min"` // "1.2", "1.3"
	VersionMax       string         `yaml:"version_max"`
	ClientAuth       ClientAuthMode `yaml:"client_auth"`
	ServerName       string         `yaml:"server_name"` // client role SNI / verification name
}
