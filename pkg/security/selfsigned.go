// Package security generates the self-signed TLS identity used by the
// HTTPS transport variant (C6) — `burrow config new-certificate`.
//
// Grounded on ca.go's x509.CreateCertificate/pkix.Name/serial-number
// template pattern from the teacher repo (trimmed from a CA that issues
// and tracks per-node leaf certificates down to a single self-signed
// cert), parameterized per original_source/db/src/rpc/tls.rs's
// create_self_signed: caller-chosen validity period, RSA-4096 vs. an
// asymmetric-curve key, and an IsCA flag. rcgen's SECP384R1 has no direct
// Go stdlib equivalent reachable from the teacher/pack's dependency set,
// so the ECDSA path uses crypto/ecdsa with elliptic.P256 instead (see
// DESIGN.md).
package security

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"time"
)

const rsaKeyBits = 4096

// GenerateSelfSigned creates a self-signed X.509 certificate and its
// private key, PEM-encoded. hosts may contain DNS names and/or IP
// addresses and is split automatically. When rsaKey is true the
// certificate uses an RSA-4096 key (SHA-256); otherwise it uses an ECDSA
// P-256 key. isCA marks the certificate as its own certificate authority,
// matching create_self_signed's IsCa::Ca(BasicConstraints::Unconstrained).
func GenerateSelfSigned(hosts []string, validity time.Duration, rsaKey bool, isCA bool) (certPEM, keyPEM []byte, err error) {
	serialNumber, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, nil, fmt.Errorf("security: generating serial number: %w", err)
	}

	template := &x509.Certificate{
		SerialNumber: serialNumber,
		Subject: pkix.Name{
			Organization: []string{"burrow"},
			CommonName:   "burrow self-signed",
		},
		NotBefore:             time.Now(),
		NotAfter:              time.Now().Add(validity),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
		BasicConstraintsValid: true,
		IsCA:                  isCA,
	}

	for _, host := range hosts {
		if ip := net.ParseIP(host); ip != nil {
			template.IPAddresses = append(template.IPAddresses, ip)
		} else {
			template.DNSNames = append(template.DNSNames, host)
		}
	}

	var (
		pub  interface{}
		priv interface{}
	)
	if rsaKey {
		key, err := rsa.GenerateKey(rand.Reader, rsaKeyBits)
		if err != nil {
			return nil, nil, fmt.Errorf("security: generating rsa key: %w", err)
		}
		priv, pub = key, &key.PublicKey
	} else {
		key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		if err != nil {
			return nil, nil, fmt.Errorf("security: generating ecdsa key: %w", err)
		}
		priv, pub = key, &key.PublicKey
	}

	certDER, err := x509.CreateCertificate(rand.Reader, template, template, pub, priv)
	if err != nil {
		return nil, nil, fmt.Errorf("security: creating certificate: %w", err)
	}

	keyDER, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, nil, fmt.Errorf("security: marshaling private key: %w", err)
	}

	certPEM = pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certDER})
	keyPEM = pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyDER})
	return certPEM, keyPEM, nil
}
