package config

import (
	"github.com/vango-dev/servicelayer/internal/errors"
	"github.com/vango-dev/servicelayer/pkg/registry"
)

const (
	// DefaultFileName is the conventional name of the registry document.
	DefaultFileName = "services.json"

	// DefaultRegistryPath is used when the document does not set
	// config.registry_path. Set it to "" to disable the registry route.
	DefaultRegistryPath = "/_api/registry"
)

// File is the decoded registry document.
type File struct {
	// Debug enables diagnostic tracing of manifest generation.
	Debug bool `json:"debug,omitempty" yaml:"debug,omitempty"`

	// Config contains the settings shared by all services.
	Config Settings `json:"config" yaml:"config"`

	// Services are the declared services, in document order.
	Services Services `json:"services" yaml:"services"`

	// Global contains the profile tables and defaults.
	Global Global `json:"global" yaml:"global"`

	// source records where the document was loaded from.
	source string
}

// Settings contains the "config" section.
type Settings struct {
	// URLPrefix is prepended to every endpoint.
	URLPrefix *Prefix `json:"url_prefix,omitempty" yaml:"url_prefix,omitempty"`

	// RegistryPath is the directory endpoint path.
	RegistryPath *string `json:"registry_path,omitempty" yaml:"registry_path,omitempty"`
}

// Service is one entry of the "services" mapping.
type Service struct {
	Enabled    bool          `json:"enabled" yaml:"enabled"`
	Service    string        `json:"service" yaml:"service"`
	Path       string        `json:"path,omitempty" yaml:"path,omitempty"`
	Definition string        `json:"definition,omitempty" yaml:"definition,omitempty"`
	Config     ServiceConfig `json:"config,omitempty" yaml:"config,omitempty"`
}

// ServiceConfig names the profiles of a service, or the defaults.
type ServiceConfig struct {
	Security string `json:"security,omitempty" yaml:"security,omitempty"`
	Caching  string `json:"caching,omitempty" yaml:"caching,omitempty"`
}

// Global contains the "global" section.
type Global struct {
	MiddlewareConfig MiddlewareConfig `json:"middleware_config" yaml:"middleware_config"`
	Defaults         DefaultsConfig   `json:"defaults" yaml:"defaults"`
}

// MiddlewareConfig holds the profile tables.
type MiddlewareConfig struct {
	Security SecurityConfig `json:"security" yaml:"security"`
	Caching  CachingConfig  `json:"caching" yaml:"caching"`
}

// SecurityConfig holds the named security profiles.
type SecurityConfig struct {
	Profiles map[string]SecurityProfile `json:"profiles" yaml:"profiles"`
}

// SecurityProfile is a security profile as written in the document.
type SecurityProfile struct {
	Expose string `json:"expose" yaml:"expose"`
}

// CachingConfig holds the named caching profiles.
type CachingConfig struct {
	Profiles map[string]CachingProfile `json:"profiles" yaml:"profiles"`
}

// CachingProfile is a caching profile as written in the document.
type CachingProfile struct {
	Activate CachingActivation `json:"activate,omitempty" yaml:"activate,omitempty"`
}

// CachingActivation lists the caching layers a profile turns on.
type CachingActivation struct {
	Local bool `json:"local,omitempty" yaml:"local,omitempty"`
}

// DefaultsConfig holds "global.defaults".
type DefaultsConfig struct {
	Service ServiceDefaults `json:"service" yaml:"service"`
}

// ServiceDefaults holds "global.defaults.service".
type ServiceDefaults struct {
	Config ServiceConfig `json:"config" yaml:"config"`
}

// Source returns where the document was loaded from, if known.
func (f *File) Source() string {
	return f.source
}

// applyDefaults fills in values the document may omit.
func (f *File) applyDefaults() {
	if f.Config.RegistryPath == nil {
		p := DefaultRegistryPath
		f.Config.RegistryPath = &p
	}
}

// Validate checks that every required key is present.
func (f *File) Validate() error {
	switch {
	case f.Services == nil:
		return f.missing("services")
	case f.Config.URLPrefix == nil:
		return f.missing("config.url_prefix")
	case f.Global.Defaults.Service.Config.Security == "":
		return f.missing("global.defaults.service.config.security")
	case f.Global.Defaults.Service.Config.Caching == "":
		return f.missing("global.defaults.service.config.caching")
	}
	return nil
}

func (f *File) missing(key string) error {
	return errors.New("E123").
		WithSource(f.source).
		WithKey(key).
		WithDetailf("%s is required", key)
}

// Spec converts the document into a registry.Spec without validating it.
func (f *File) Spec() registry.Spec {
	spec := registry.Spec{
		Debug:            f.Debug,
		Services:         make([]registry.Service, 0, len(f.Services)),
		SecurityProfiles: make(map[string]registry.SecurityProfile, len(f.Global.MiddlewareConfig.Security.Profiles)),
		CachingProfiles:  make(map[string]registry.CachingProfile, len(f.Global.MiddlewareConfig.Caching.Profiles)),
		Defaults: registry.Defaults{
			Security: f.Global.Defaults.Service.Config.Security,
			Caching:  f.Global.Defaults.Service.Config.Caching,
		},
	}
	if f.Config.URLPrefix != nil {
		spec.Prefix = []string(*f.Config.URLPrefix)
	}
	if f.Config.RegistryPath != nil {
		spec.RegistryPath = *f.Config.RegistryPath
	}
	for _, s := range f.Services {
		spec.Services = append(spec.Services, registry.Service{
			Name: s.Name,
			Entry: registry.ServiceEntry{
				Enabled:         s.Service.Enabled,
				Ref:             s.Service.Service,
				SecurityProfile: s.Service.Config.Security,
				CachingProfile:  s.Service.Config.Caching,
				Path:            s.Service.Path,
				Definition:      s.Service.Definition,
			},
		})
	}
	for name, p := range f.Global.MiddlewareConfig.Security.Profiles {
		spec.SecurityProfiles[name] = registry.SecurityProfile{Exposure: registry.Exposure(p.Expose)}
	}
	for name, p := range f.Global.MiddlewareConfig.Caching.Profiles {
		spec.CachingProfiles[name] = registry.CachingProfile{ActivateLocal: p.Activate.Local}
	}
	return spec
}

// Registry validates the document and builds the registry from it.
func (f *File) Registry() (*registry.Registry, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	reg, err := registry.New(f.Spec())
	if err != nil {
		if f.source != "" {
			return nil, errors.FromError(err, "E120").WithSource(f.source)
		}
		return nil, err
	}
	return reg, nil
}
