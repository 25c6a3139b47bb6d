// Package errors provides structured, actionable error messages for the
// service layer.
//
// Every failure that stops the registry from being built is reported as an
// *Error carrying a stable code, a category, a short message and, where it
// helps, the configuration key that caused it and a hint on how to fix it.
//
// # Error Categories
//
//   - config: the service registry document is malformed or inconsistent
//   - routing: the routing table cannot be built or bound
//   - source: a configuration source could not be read
//   - cli: command line misuse
//
// Errors in the config and routing categories are configuration defects:
// they abort startup and are never retried. Use
//
//	errors.Is(err, errors.ErrConfigurationDefect)
//
// to detect them regardless of wrapping.
//
// # Usage
//
//	err := errors.New("E121").
//	    WithKey("global.defaults.service.config.security").
//	    WithDetail(`profile "public" is not defined`).
//	    WithSuggestion("Add the profile under global.middleware_config.security.profiles")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E121: Default security profile not found
//	//
//	//   services.json: global.defaults.service.config.security
//	//
//	//   profile "public" is not defined
//	//
//	//   Hint: Add the profile under global.middleware_config.security.profiles
package errors
