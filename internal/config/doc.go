// Package config loads the service registry document and turns it into a
// validated registry.Registry.
//
// The document may be JSON (comments and trailing commas allowed), or YAML.
// Its shape:
//
//	{
//	  "debug": false,
//	  "config": {
//	    "url_prefix": "/_api/rpc",
//	    "registry_path": "/_api/registry"
//	  },
//	  "services": {
//	    "echo": {
//	      "enabled": true,
//	      "service": "app.api.EchoService",
//	      "config": {"security": "public", "caching": "off"}
//	    }
//	  },
//	  "global": {
//	    "middleware_config": {
//	      "security": {"profiles": {"public": {"expose": "all"}}},
//	      "caching": {"profiles": {"off": {"activate": {"local": false}}}}
//	    },
//	    "defaults": {
//	      "service": {"config": {"security": "public", "caching": "off"}}
//	    }
//	  }
//	}
//
// The order of the "services" mapping is preserved: it is the order of the
// manifest and of the routing table.
//
// # Usage
//
//	f, err := config.LoadFile("services.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	reg, err := f.Registry()
//
// Documents stored in S3 are read with S3Source.
package config
