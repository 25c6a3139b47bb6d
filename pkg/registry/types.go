package registry

// Exposure controls who may see a service in the manifest.
type Exposure string

const (
	// ExposeAll makes a service visible to every caller.
	ExposeAll Exposure = "all"
	// ExposeAdmin makes a service visible to administrators only.
	ExposeAdmin Exposure = "admin"
	// ExposeNone hides a service from the manifest entirely.
	ExposeNone Exposure = "none"
)

// Valid reports whether e is one of the known exposure values.
func (e Exposure) Valid() bool {
	switch e {
	case ExposeAll, ExposeAdmin, ExposeNone:
		return true
	}
	return false
}

// SecurityProfile is a named bundle of security settings.
type SecurityProfile struct {
	Exposure Exposure `json:"expose"`
}

// CachingProfile is a named bundle of caching settings.
type CachingProfile struct {
	// ActivateLocal turns on local caching for services using the profile.
	ActivateLocal bool `json:"local"`
}

// ServiceEntry is the per-service configuration.
type ServiceEntry struct {
	Enabled bool `json:"enabled"`

	// Ref identifies the handler implementing the service. It is passed
	// through to the dispatch layer untouched.
	Ref string `json:"service"`

	// SecurityProfile and CachingProfile name profiles; empty selects the
	// default.
	SecurityProfile string `json:"security,omitempty"`
	CachingProfile  string `json:"caching,omitempty"`

	// Path overrides the routing path computed from the prefix.
	Path string `json:"path,omitempty"`

	// Definition overrides the canonical definition name used for routing.
	// Dotted names ("app.api.Echo") become path segments.
	Definition string `json:"definition,omitempty"`
}

// Service is a named entry in registry order.
type Service struct {
	Name  string
	Entry ServiceEntry
}

// Defaults names the profiles applied when a service specifies none.
type Defaults struct {
	Security string
	Caching  string
}

// Spec is the input to New.
type Spec struct {
	// Prefix is prepended to every service endpoint.
	Prefix []string

	// RegistryPath, when set, is where the mapping exposes the self
	// describing service directory.
	RegistryPath string

	// Debug enables diagnostic tracing while building the manifest.
	Debug bool

	// Services in declaration order.
	Services []Service

	SecurityProfiles map[string]SecurityProfile
	CachingProfiles  map[string]CachingProfile
	Defaults         Defaults
}
