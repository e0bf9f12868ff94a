package lead

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func TestDomain(t *testing.T) {
	tests := []struct {
		name    string
		website string
		want    string
		wantOK  bool
	}{
		{"https www path", "https://www.acme.io/about", "acme.io", true},
		{"http path", "http://acme.io/x", "acme.io", true},
		{"https no path", "https://acme.io", "acme.io", true},
		{"uppercase", "HTTPS://WWW.Acme.IO/", "acme.io", true},
		{"subdomain kept", "https://app.acme.io/login", "app.acme.io", true},
		{"surrounding space", "  https://acme.io  ", "acme.io", true},
		{"bare host", "acme.io", "acme.io", true},
		{"bare www host", "www.acme.io/pricing", "acme.io", true},
		{"empty", "", "", false},
		{"spaces only", "   ", "", false},
		{"not a url", "not a url", "", false},
		{"no dot", "localhost", "", false},
		{"ftp scheme", "ftp://acme.io", "", false},
		{"email", "sales@acme.io", "", false},
		{"scheme only", "https://", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Domain(tt.website)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIdentityKey(t *testing.T) {
	assert.Equal(t, "domain:acme.io", identityKey("https://acme.io", "Acme"))
	assert.Equal(t, "company:Acme", identityKey("", "Acme"))
	assert.Equal(t, "company:Acme", identityKey("::bad::", "Acme"))
	// A company literally named like a domain does not merge with that domain.
	assert.NotEqual(t, identityKey("https://acme.io", "X"), identityKey("", "acme.io"))
}
