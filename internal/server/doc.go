// Package server implements an in-memory configuration service speaking the
// same HTTP protocol as the installer service.
//
// It is used by the agama-mock command for local development and by tests
// that need a real service on the other end of the wire.
//
// # Endpoints
//
// Everything lives below /api:
//
//	GET  /api/<root>/<collection>       list records (JSON array)
//	POST /api/<root>/<collection>       create a record (409 if the id exists)
//	GET  /api/<root>/<collection>/<id>  get a record (404 if missing)
//	PUT  /api/<root>/<collection>/<id>  replace a record (404 if missing)
//	PUT  /api/<root>/<apply path>       commit pending changes
//	GET  /api/ws                        websocket stream of change events
//
// Error responses carry a plain-text diagnostic. /metrics exposes Prometheus
// metrics and / answers "online".
//
// # Pending changes
//
// Every create and replace increments the pending counter of its root. Apply
// resets the counter and increments the root generation. Both values travel
// with each published event.
//
// # Usage Example
//
//	store, _ := server.NewStore(server.DefaultLayout())
//	srv, err := server.New(&server.Config{Port: 3000}, store)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// The store is guarded by a read/write mutex and each websocket subscriber
// runs its own writer goroutine, so requests are served concurrently.
package server
