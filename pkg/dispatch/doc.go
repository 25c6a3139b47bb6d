// Package dispatch binds a routing table onto a chi router.
//
// Service routes resolve their opaque handler reference through a
// HandlerResolver and accept every method. The registry route serves the
// table's Directory as JSON. The forms routes render the same directory as
// an HTML index and one page per service.
//
//	table, err := mapping.Build(reg)
//	if err != nil {
//	    return err
//	}
//	r := chi.NewRouter()
//	if err := dispatch.Mount(r, table, dispatch.ResolverMap{
//	    "app.api.EchoService": echoHandler,
//	}); err != nil {
//	    return err
//	}
//
// Mount resolves every handler before registering anything, so a failed
// mount leaves the router untouched.
package dispatch
