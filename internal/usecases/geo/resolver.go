package geo

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/vfg2006/affiliate-serving-api/internal/domain"
)

const (
	DefaultPrimaryHeader   = "X-Vercel-IP-Country"
	DefaultSecondaryHeader = "CF-IPCountry"

	countryParam   = "country"
	unknownCountry = "XX"
)

var countryCode = regexp.MustCompile(`^[A-Z]{2}$`)

// Resolver determina o país da requisição. Não faz I/O.
type Resolver struct {
	primaryHeader   string
	secondaryHeader string
}

func NewResolver(primaryHeader, secondaryHeader string) *Resolver {
	if primaryHeader == "" {
		primaryHeader = DefaultPrimaryHeader
	}
	if secondaryHeader == "" {
		secondaryHeader = DefaultSecondaryHeader
	}

	return &Resolver{
		primaryHeader:   primaryHeader,
		secondaryHeader: secondaryHeader,
	}
}

// Resolve segue a ordem: parâmetro country, header primário, header secundário.
// Valores fora do formato ISO alpha-2 (ex.: T1 do Cloudflare) são ignorados.
func (g *Resolver) Resolve(r *http.Request) domain.GeoInfo {
	if country, ok := normalize(r.URL.Query().Get(countryParam)); ok {
		return known(country, domain.GeoSourceParam)
	}

	if country, ok := normalize(r.Header.Get(g.primaryHeader)); ok && country != unknownCountry {
		return known(country, domain.GeoSourceVercelHeader)
	}

	if country, ok := normalize(r.Header.Get(g.secondaryHeader)); ok && country != unknownCountry {
		return known(country, domain.GeoSourceCloudflareHeader)
	}

	return domain.GeoInfo{Source: domain.GeoSourceUnknown}
}

func normalize(value string) (string, bool) {
	country := strings.ToUpper(strings.TrimSpace(value))
	if !countryCode.MatchString(country) {
		return "", false
	}
	return country, true
}

func known(country string, source domain.GeoSource) domain.GeoInfo {
	return domain.GeoInfo{
		Country: &country,
		Source:  source,
	}
}
