package httpserver

import (
	"strings"
	"testing"

	"github.com/AbdoTarek2211/MovieMatch/internal/config"
)

func TestSignedTokenRoundTrip(t *testing.T) {
	srv := &Server{cfg: config.Config{SessionSecret: "round-trip-secret"}}

	signed := srv.signToken("abc-123")
	if !strings.HasPrefix(signed, "abc-123.") {
		t.Fatalf("signed value %q does not start with token", signed)
	}

	token, ok := srv.parseSignedToken(signed)
	if !ok || token != "abc-123" {
		t.Fatalf("parse = (%q, %v), want (abc-123, true)", token, ok)
	}
}

func TestParseSignedTokenRejectsForgeries(t *testing.T) {
	srv := &Server{cfg: config.Config{SessionSecret: "secret-a"}}
	other := &Server{cfg: config.Config{SessionSecret: "secret-b"}}

	signed := srv.signToken("abc-123")

	cases := map[string]string{
		"no signature":     "abc-123",
		"empty token":      "." + strings.TrimPrefix(signed, "abc-123."),
		"padded signature": signed + "00",
		"wrong secret":     other.signToken("abc-123"),
		"empty value":      "",
	}
	for name, value := range cases {
		if _, ok := srv.parseSignedToken(value); ok {
			t.Errorf("%s: parseSignedToken(%q) accepted a forged value", name, value)
		}
	}
}
