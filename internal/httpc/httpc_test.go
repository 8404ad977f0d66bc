package httpc

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHttpc_Insecure_AllowsSelfSigned(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	// default should fail due to unknown authority
	strict := (&Httpc{}).New()
	if _, err := strict.R().Get(srv.URL); err == nil {
		t.Fatalf("expected error without insecure TLS, got nil")
	}

	// insecure should succeed
	insecure := (&Httpc{Insecure: true}).New()
	resp, err := insecure.R().Get(srv.URL)
	if err != nil || resp.StatusCode() != 200 {
		t.Fatalf("expected 200 with insecure, got code=%d err=%v", resp.StatusCode(), err)
	}
}

func TestHttpc_TLSBoundsApplied(t *testing.T) {
	c := (&Httpc{MinTLSVersion: "1.2", MaxTLSVersion: "1.2"}).New()
	tr, _ := c.GetClient().Transport.(*http.Transport)
	if tr == nil || tr.TLSClientConfig == nil {
		t.Fatalf("expected TLSClientConfig to be set")
	}
	if tr.TLSClientConfig.MinVersion != tls.VersionTLS12 || tr.TLSClientConfig.MaxVersion != tls.VersionTLS12 {
		t.Fatalf("expected TLS1.2 only, got Min=%v Max=%v",
			tr.TLSClientConfig.MinVersion, tr.TLSClientConfig.MaxVersion)
	}
}

func TestHttpc_DefaultLeavesTransportAlone(t *testing.T) {
	c := (&Httpc{}).New()
	tr, _ := c.GetClient().Transport.(*http.Transport)
	if tr != nil && tr.TLSClientConfig != nil {
		if tr.TLSClientConfig.InsecureSkipVerify {
			t.Fatalf("default client must not skip verification")
		}
	}
}

func TestParseTLSVersion(t *testing.T) {
	cases := map[string]uint16{
		"1.0":     tls.VersionTLS10,
		"tls11":   tls.VersionTLS11,
		"1.2":     tls.VersionTLS12,
		"TLS1.3":  tls.VersionTLS13,
		"13":      tls.VersionTLS13,
		"":        0,
		"weird!!": 0,
	}
	for in, want := range cases {
		if got := ParseTLSVersion(in); got != want {
			t.Fatalf("ParseTLSVersion(%q) = %v, want %v", in, got, want)
		}
	}
}

func FuzzParseTLSVersion(f *testing.F) {
	f.Add("")
	f.Add("1.2")
	f.Add("tls1.3")
	f.Add("TLS13")
	f.Add("weird-input!!")

	f.Fuzz(func(t *testing.T, s string) {
		v := ParseTLSVersion(s)
		if v != 0 && v != tls.VersionTLS10 && v != tls.VersionTLS11 && v != tls.VersionTLS12 && v != tls.VersionTLS13 {
			t.Fatalf("unexpected tls version: %v", v)
		}
	})
}
