// Package mapping builds the routing table a dispatch layer binds service
// handlers to.
//
// Every enabled service is mapped, whatever its exposure: visibility in the
// manifest and reachability through the router are separate concerns. A
// service's path is its explicit override when one is configured, and the
// registry prefix joined with its canonical definition name otherwise.
//
// Paths must be unique. The first collision aborts the build with a
// *DuplicatePathError and no table is returned.
//
// When a registry path is configured the table ends with a route serving a
// read-only Directory of the mapped services, followed (unless disabled with
// WithoutForms) by two routes for browsing that directory as HTML forms:
//
//	/registry              KindRegistry
//	/registry/form         KindFormsIndex    pattern /registry/form(?:/)?
//	/registry/form/{service} KindFormsService pattern /registry/form/(.+)
package mapping
