// Package tlsutil loads TLS material for the HTTP and gRPC listeners and
// generates throwaway certificates for local development.
package tlsutil

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"time"

	"google.golang.org/grpc/credentials"
)

// Files names the PEM files of a generated development CA and server pair.
type Files struct {
	CA    string `json:"ca"`
	CAKey string `json:"ca_key"`
	Cert  string `json:"cert"`
	Key   string `json:"key"`
}

// FilesIn returns the file layout Generate uses inside dir.
func FilesIn(dir string) Files {
	return Files{
		CA:    filepath.Join(dir, "ca.pem"),
		CAKey: filepath.Join(dir, "ca-key.pem"),
		Cert:  filepath.Join(dir, "server.pem"),
		Key:   filepath.Join(dir, "server-key.pem"),
	}
}

// List returns the paths in write order.
func (f Files) List() []string {
	return []string{f.CA, f.CAKey, f.Cert, f.Key}
}

// ServerConfig loads a server certificate and key into a tls.Config.
func ServerConfig(certFile, keyFile string) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("tlsutil: load server key pair: %w", err)
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}

// ServerCredentials is ServerConfig wrapped for a gRPC server.
func ServerCredentials(certFile, keyFile string) (credentials.TransportCredentials, error) {
	cfg, err := ServerConfig(certFile, keyFile)
	if err != nil {
		return nil, err
	}
	return credentials.NewTLS(cfg), nil
}

// ClientCredentials builds gRPC client credentials that trust the CA in
// caFile, or the system roots when caFile is empty.
func ClientCredentials(caFile string) (credentials.TransportCredentials, error) {
	cfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if caFile != "" {
		pool, err := loadPool(caFile)
		if err != nil {
			return nil, err
		}
		cfg.RootCAs = pool
	}
	return credentials.NewTLS(cfg), nil
}

func loadPool(caFile string) (*x509.CertPool, error) {
	data, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("tlsutil: read CA file: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(data) {
		return nil, fmt.Errorf("tlsutil: no certificates in %s", caFile)
	}
	return pool, nil
}

// CertOptions tunes Generate. Zero values pick development defaults.
type CertOptions struct {
	Hosts        []string
	Organization string
	Validity     time.Duration
}

// Generate writes a development CA and a server certificate signed by it
// into dir and returns the file layout.
func Generate(dir string, opts CertOptions) (Files, error) {
	if len(opts.Hosts) == 0 {
		return Files{}, errors.New("tlsutil: at least one host is required")
	}
	if opts.Organization == "" {
		opts.Organization = "Credit Service Dev"
	}
	if opts.Validity <= 0 {
		opts.Validity = 365 * 24 * time.Hour
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Files{}, fmt.Errorf("tlsutil: mkdir %s: %w", dir, err)
	}

	files := FilesIn(dir)
	now := time.Now()

	caTmpl := &x509.Certificate{
		Subject:               pkix.Name{Organization: []string{opts.Organization + " CA"}},
		NotBefore:             now,
		NotAfter:              now.Add(10 * opts.Validity),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	caCert, caKey, err := issue(caTmpl, nil, nil, files.CA, files.CAKey)
	if err != nil {
		return Files{}, err
	}

	leafTmpl := &x509.Certificate{
		Subject:     pkix.Name{Organization: []string{opts.Organization}},
		NotBefore:   now,
		NotAfter:    now.Add(opts.Validity),
		KeyUsage:    x509.KeyUsageDigitalSignature,
		ExtKeyUsage: []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	for _, h := range opts.Hosts {
		if ip := net.ParseIP(h); ip != nil {
			leafTmpl.IPAddresses = append(leafTmpl.IPAddresses, ip)
		} else {
			leafTmpl.DNSNames = append(leafTmpl.DNSNames, h)
		}
	}
	if _, _, err := issue(leafTmpl, caCert, caKey, files.Cert, files.Key); err != nil {
		return Files{}, err
	}
	return files, nil
}

// issue creates a key and certificate for tmpl, signed by parent or
// self-signed when parent is nil, and writes both as PEM.
func issue(tmpl, parent *x509.Certificate, parentKey crypto.Signer, certPath, keyPath string) (*x509.Certificate, crypto.Signer, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("tlsutil: generate key: %w", err)
	}
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 127))
	if err != nil {
		return nil, nil, fmt.Errorf("tlsutil: serial number: %w", err)
	}
	tmpl.SerialNumber = serial

	if parent == nil {
		parent, parentKey = tmpl, key
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, parent, &key.PublicKey, parentKey)
	if err != nil {
		return nil, nil, fmt.Errorf("tlsutil: create certificate: %w", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, nil, fmt.Errorf("tlsutil: parse certificate: %w", err)
	}

	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return nil, nil, fmt.Errorf("tlsutil: marshal key: %w", err)
	}
	if err := writePEM(certPath, "CERTIFICATE", der); err != nil {
		return nil, nil, err
	}
	if err := writePEM(keyPath, "EC PRIVATE KEY", keyDER); err != nil {
		return nil, nil, err
	}
	return cert, key, nil
}

func writePEM(path, blockType string, data []byte) error {
	out := pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: data})
	if err := os.WriteFile(path, out, 0o600); err != nil {
		return fmt.Errorf("tlsutil: write %s: %w", path, err)
	}
	return nil
}
