// Package registry keeps named repositories, e.g. one repository per
// configuration scope of an application:
//
//	reg := registry.New()
//	_ = reg.Register("app", tree.New(nil))
//	app, ok := reg.Lookup("app")
//
// The registry is backed by a concurrent map (xsync.MapOf), registrations
// and lookups may happen from any goroutine. Operation counts are tracked in
// a go-metrics registry available through Metrics.
package registry
