package tlsoverlay

import (
	"crypto/tls"
	"crypto/x509"
	"os"

	"github.com/momentics/netkit/api"
)

// Build turns Config into a *tls.Config suitable for both tls.Server and
// tls.Client. An empty Config yields a minimal tls.Config with Go's
// default cipher/curve/version selection and no certificates — callers
// relying on mutual auth or a specific cert chain must populate Certs.
func (c Config) Build() (*tls.Config, error) {
	out := &tls.Config{
		ClientAuth: c.ClientAuth.toStd(),
		ServerName: c.ServerName,
	}

	for _, pair := range c.Certs {
		cert, err := tls.LoadX509KeyPair(pair.CertFile, pair.KeyFile)
		if err != nil {
			return nil, api.NewError(api.ErrCodeTLSConfig, api.CategoryConfiguration,
				"load cert pair "+pair.CertFile).Wrap(err)
		}
		out.Certificates = append(out.Certificates, cert)
	}

	if len(c.RootCAFiles) > 0 {
		pool, err := loadCertPool(c.RootCAFiles)
		if err != nil {
			return nil, err
		}
		out.RootCAs = pool
	}

	if len(c.ClientCAFiles) > 0 {
		pool, err := loadCertPool(c.ClientCAFiles)
		if err != nil {
			return nil, err
		}
		out.ClientCAs = pool
	}

	for _, name := range c.CipherSuites {
		id, ok := cipherSuiteByName[name]
		if !ok {
			return nil, api.NewError(api.ErrCodeTLSConfig, api.CategoryConfiguration,
				"unknown cipher suite "+name)
		}
		out.CipherSuites = append(out.CipherSuites, id)
	}

	for _, name := range c.CurvePreferences {
		id, ok := curveByName[name]
		if !ok {
			return nil, api.NewError(api.ErrCodeTLSConfig, api.CategoryConfiguration,
				"unknown curve "+name)
		}
		out.CurvePreferences = append(out.CurvePreferences, id)
	}

	if c.VersionMin != "" {
		v, ok := versionByName[c.VersionMin]
		if !ok {
			return nil, api.NewError(api.ErrCodeTLSConfig, api.CategoryConfiguration,
				"unknown min version "+c.VersionMin)
		}
		out.MinVersion = v
	}
	if c.VersionMax != "" {
		v, ok := versionByName[c.VersionMax]
		if !ok {
			return nil, api.NewError(api.ErrCodeTLSConfig, api.CategoryConfiguration,
				"unknown max version "+c.VersionMax)
		}
		out.MaxVersion = v
	}

	return out, nil
}

func loadCertPool(files []string) (*x509.CertPool, error) {
	pool := x509.NewCertPool()
	for _, f := range files {
		pem, err := os.ReadFile(f)
		if err != nil {
			return nil, api.NewError(api.ErrCodeTLSConfig, api.CategoryConfiguration,
				"read CA file "+f).Wrap(err)
		}
		if !pool.AppendCertsFromPEM(pem) {
			return nil, api.NewError(api.ErrCodeTLSConfig, api.CategoryConfiguration,
				"no certs parsed from "+f)
		}
	}
	return pool, nil
}
