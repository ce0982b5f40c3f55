package security

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSelfSignedECDSA(t *testing.T) {
	certPEM, keyPEM, err := GenerateSelfSigned([]string{"localhost", "127.0.0.1"}, 24*time.Hour, false, false)
	require.NoError(t, err)

	block, _ := pem.Decode(certPEM)
	require.NotNil(t, block)
	cert, err := x509.ParseCertificate(block.Bytes)
	require.NoError(t, err)
	assert.Contains(t, cert.DNSNames, "localhost")
	assert.False(t, cert.IsCA)

	_, err = tls.X509KeyPair(certPEM, keyPEM)
	require.NoError(t, err)
}

func TestGenerateSelfSignedRSAWithCA(t *testing.T) {
	certPEM, keyPEM, err := GenerateSelfSigned([]string{"example.test"}, time.Hour, true, true)
	require.NoError(t, err)

	block, _ := pem.Decode(certPEM)
	require.NotNil(t, block)
	cert, err := x509.ParseCertificate(block.Bytes)
	require.NoError(t, err)
	assert.True(t, cert.IsCA)

	_, err = tls.X509KeyPair(certPEM, keyPEM)
	require.NoError(t, err)
}
