// Package resource is a generic client for collections exposed by the
// configuration service of the installer.
//
// The service groups collections below a root path (network, software) and
// keeps changes pending until the root's apply endpoint is called. A Service
// value represents one root; a Client[T] represents one collection of that
// root and decodes its records into T.
//
// Basic usage:
//
//	tr, _ := httptransport.New("http://localhost:3000/api")
//	svc := resource.NewService(tr, "network", resource.WithApplyPath("system/apply"))
//	conns := resource.MustNewClient(svc, resource.Kind[Connection]{
//	    Name:       "connection",
//	    Collection: "connections",
//	    ID:         func(c Connection) string { return c.ID },
//	})
//
//	outcome, err := conns.Upsert(ctx, Connection{ID: "eth0", Status: "up"})
//	if err != nil {
//	    return err
//	}
//	return svc.Apply(ctx)
//
// Error handling:
//
// Every failure falls in one of three categories, which callers tell apart
// with errors.As:
//
//   - *TransportError: no response was obtained
//   - *DecodeError: a successful response had an unexpected body
//   - *ServiceError: the service answered with a non-success status; the raw
//     body is kept in the Body field
//
// Upsert only writes after a definitive answer: a record that exists is
// replaced, a 404 leads to a create, and any other failure of the existence
// check is returned without writing.
package resource
