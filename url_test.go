package dossier_test

import (
	"net/url"
	"testing"

	"github.com/fwojciec/dossier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "https://Example.com/Team/", want: "https://example.com/Team"},
		{in: "example.com/about#leaders", want: "https://example.com/about"},
		{in: "http://example.com", want: "http://example.com/"},
		{in: "  https://example.com/a?b=1  ", want: "https://example.com/a?b=1"},
		{in: "", wantErr: true},
		{in: "ftp://example.com/file", wantErr: true},
		{in: "https://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := dossier.NormalizeURL(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, dossier.EINVALID, dossier.ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveURL(t *testing.T) {
	t.Parallel()

	base, err := url.Parse("https://acme.example/company/team")
	require.NoError(t, err)

	tests := []struct {
		ref  string
		want string
	}{
		{"img/jane.jpg", "https://acme.example/company/img/jane.jpg"},
		{"/img/jane.jpg", "https://acme.example/img/jane.jpg"},
		{"//cdn.example/jane.jpg", "https://cdn.example/jane.jpg"},
		{"https://other.example/x", "https://other.example/x"},
		{"mailto:jane@acme.example", "mailto:jane@acme.example"},
		{"tel:+15551234567", "tel:+15551234567"},
		{"javascript:void(0)", ""},
		{"#", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, dossier.ResolveURL(base, tt.ref))
		})
	}
}

func TestResolveURL_RoundTrip(t *testing.T) {
	t.Parallel()

	source := "https://acme.example/about/leadership"
	base, err := url.Parse(source)
	require.NoError(t, err)

	for _, ref := range []string{"photo.png", "../img/p.png", "/static/a/b.webp", "./x.jpg?v=2"} {
		resolved := dossier.ResolveURL(base, ref)

		u, err := url.Parse(resolved)
		require.NoError(t, err)
		assert.True(t, u.IsAbs(), ref)
		assert.Equal(t, base.Scheme, u.Scheme, ref)
		assert.Equal(t, base.Host, u.Host, ref)
	}
}
