package client

import (
	"crypto/tls"
	"crypto/x509"
	"net/http"
	"os"

	"github.com/antonio-alexander/go-employee-pipeline/internal/data"
)

// getTlsConfig returns a plain transport unless all three files are set, in
// which case the transport presents the client certificate and only trusts
// the given ca.
func getTlsConfig(sslCaFile, sslCrtFile, sslKeyFile string) (*http.Transport, error) {
	if sslCaFile == "" || sslCrtFile == "" || sslKeyFile == "" {
		return &http.Transport{}, nil
	}
	bytesCa, err := os.ReadFile(sslCaFile)
	if err != nil {
		return nil, data.Wrapf(data.ErrIO, err, "unable to read ca file: %s", sslCaFile)
	}
	caCertPool := x509.NewCertPool()
	if !caCertPool.AppendCertsFromPEM(bytesCa) {
		return nil, data.Errorf(data.ErrUsage, "no certificates found in ca file: %s", sslCaFile)
	}
	certificate, err := tls.LoadX509KeyPair(sslCrtFile, sslKeyFile)
	if err != nil {
		return nil, data.Wrapf(data.ErrUsage, err, "unable to load key pair")
	}
	return &http.Transport{
		TLSClientConfig: &tls.Config{
			MinVersion:   tls.VersionTLS12,
			RootCAs:      caCertPool,
			Certificates: []tls.Certificate{certificate},
		},
	}, nil
}
