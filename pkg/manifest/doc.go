// Package manifest builds the user-facing list of services that are
// reachable under the current caller's privileges.
//
// Build walks a registry in declaration order, resolves each service's
// effective security and caching profiles, and applies the exposure rule:
//
//   - all: always listed
//   - admin: listed only when the caller is an administrator
//   - none: never listed
//
// Disabled and hidden services are omitted silently; they are policy
// decisions, not errors. Handler serves the manifest as JSON, building it
// afresh for every request.
package manifest
