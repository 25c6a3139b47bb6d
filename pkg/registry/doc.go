// Package registry holds the Service Registry: the validated, immutable
// description of every declared remote-procedure service together with the
// global security and caching profiles that apply to them.
//
// A Registry is built once at startup with New and passed explicitly to the
// manifest and mapping builders. Nothing mutates it afterwards, so it may be
// shared by any number of goroutines without locking.
//
//	reg, err := registry.New(registry.Spec{
//	    Prefix: []string{"api", "v1"},
//	    Services: []registry.Service{
//	        {Name: "echo", Entry: registry.ServiceEntry{Enabled: true, Ref: "app.EchoService"}},
//	    },
//	    SecurityProfiles: map[string]registry.SecurityProfile{"public": {Exposure: registry.ExposeAll}},
//	    CachingProfiles:  map[string]registry.CachingProfile{"off": {}},
//	    Defaults:         registry.Defaults{Security: "public", Caching: "off"},
//	})
//
// Profile resolution never fails on a built Registry: a service without a
// profile key, or naming a profile that does not exist, resolves to the
// default profile, and New refuses to build a Registry whose defaults do not
// resolve.
package registry
