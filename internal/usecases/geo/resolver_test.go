package geo

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/affiliate-serving-api/internal/domain"
)

func TestResolver_Resolve(t *testing.T) {
	tests := []struct {
		name            string
		query           string
		headers         map[string]string
		expectedCountry string
		expectedSource  domain.GeoSource
	}{
		{
			name:            "Parâmetro tem prioridade e é convertido para maiúsculas",
			query:           "?country=br",
			headers:         map[string]string{"X-Vercel-IP-Country": "US"},
			expectedCountry: "BR",
			expectedSource:  domain.GeoSourceParam,
		},
		{
			name:            "Parâmetro inválido é ignorado",
			query:           "?country=BRA",
			headers:         map[string]string{"X-Vercel-IP-Country": "US"},
			expectedCountry: "US",
			expectedSource:  domain.GeoSourceVercelHeader,
		},
		{
			name:            "Header primário com XX cai para o secundário",
			headers:         map[string]string{"X-Vercel-IP-Country": "XX", "CF-IPCountry": "DE"},
			expectedCountry: "DE",
			expectedSource:  domain.GeoSourceCloudflareHeader,
		},
		{
			name:           "Os dois headers com XX",
			headers:        map[string]string{"X-Vercel-IP-Country": "XX", "CF-IPCountry": "XX"},
			expectedSource: domain.GeoSourceUnknown,
		},
		{
			name:            "Header em minúsculas é normalizado",
			headers:         map[string]string{"X-Vercel-IP-Country": " br "},
			expectedCountry: "BR",
			expectedSource:  domain.GeoSourceVercelHeader,
		},
		{
			name:           "Código Tor do Cloudflare é ignorado",
			headers:        map[string]string{"X-Vercel-IP-Country": "T1", "CF-IPCountry": "T1"},
			expectedSource: domain.GeoSourceUnknown,
		},
		{
			name:            "Header primário inválido cai para o secundário",
			headers:         map[string]string{"X-Vercel-IP-Country": "USA", "CF-IPCountry": "de"},
			expectedCountry: "DE",
			expectedSource:  domain.GeoSourceCloudflareHeader,
		},
		{
			name:           "Header com xx em minúsculas também é desconhecido",
			headers:        map[string]string{"X-Vercel-IP-Country": "xx"},
			expectedSource: domain.GeoSourceUnknown,
		},
		{
			name:           "Sem nenhuma fonte",
			query:          "?country=1A",
			expectedSource: domain.GeoSourceUnknown,
		},
	}

	resolver := NewResolver("", "")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/v1/serve"+tt.query, nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			info := resolver.Resolve(req)

			assert.Equal(t, tt.expectedSource, info.Source)
			if tt.expectedCountry == "" {
				assert.Nil(t, info.Country)
				return
			}
			require.NotNil(t, info.Country)
			assert.Equal(t, tt.expectedCountry, *info.Country)
		})
	}
}

func TestResolver_CustomHeaders(t *testing.T) {
	resolver := NewResolver("X-Geo-Country", "X-Edge-Country")

	req := httptest.NewRequest("GET", "/api/v1/serve", nil)
	req.Header.Set("X-Vercel-IP-Country", "US")
	req.Header.Set("X-Edge-Country", "FR")

	info := resolver.Resolve(req)
	require.NotNil(t, info.Country)
	assert.Equal(t, "FR", *info.Country)
	assert.Equal(t, domain.GeoSourceCloudflareHeader, info.Source)
}
