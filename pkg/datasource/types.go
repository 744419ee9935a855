// Package datasource implements the Datasource Registry (component C4):
// an indexed collection of authoritative API descriptors, returning
// those matching a query, ranked by priority.
//
// Grounded on github.com/kadirpekel/hector's pkg/registry generic
// BaseRegistry[T], specialized here to Datasource's substring-match and
// usage_count tie-break semantics.
package datasource

// AuthScheme identifies how requests to a Datasource authenticate.
type AuthScheme string

const (
	AuthNone   AuthScheme = "none"
	AuthAPIKey AuthScheme = "api-key"
	AuthBearer AuthScheme = "bearer"
	AuthBasic  AuthScheme = "basic"
	AuthOAuth2 AuthScheme = "oauth2"
	AuthCustom AuthScheme = "custom"
)

// Param describes one endpoint parameter.
type Param struct {
	Name        string
	Type        string
	Required    bool
	Description string
}

// Endpoint describes a single callable operation on a Datasource.
type Endpoint struct {
	Path        string
	Method      string
	Description string
	Params      []Param
	Example     string
	RateLimit   string
}

// Datasource is one registered API descriptor (spec §3 Datasource).
type Datasource struct {
	ID          string
	Name        string
	Description string
	BaseURL     string
	AuthScheme  AuthScheme
	AuthConfig  map[string]string
	Endpoints   []Endpoint
	Tags        []string
	Priority    int
	Enabled     bool

	usageCount int
}

// UsageCount returns the number of times this source has been used,
// the find_relevant tie-breaker (spec §4.4).
func (d Datasource) UsageCount() int { return d.usageCount }
