// Package network manages the network settings of the installer service.
//
// Devices are read-only and identified by interface name. Connections are
// identified by their id and are written with an upsert: the client looks the
// id up and replaces the connection when it exists or creates it when the
// service reports it missing. Writes stay pending on the service until Apply
// commits them.
//
// # Usage Example
//
//	tr, err := httptransport.New("http://localhost:3000/api")
//	if err != nil {
//	    return err
//	}
//	client := network.NewClient(tr)
//
//	conn, err := network.NewConnection("eth0", "eth0").
//	    SetStatic("192.168.1.10/24", "192.168.1.1").
//	    SetNameservers("192.168.1.1").
//	    Build()
//	if err != nil {
//	    return err
//	}
//
//	// Write, re-read until the service reports it, restore on failure
//	rm := network.NewRollbackManager(client)
//	result := rm.SafeUpsert(ctx, conn, nil, "static eth0")
//	fmt.Println(result)
//
//	if err := client.Apply(ctx); err != nil {
//	    return err
//	}
//
// Profiles with several connections go through Store, which validates all of
// them, upserts them in order and applies once.
package network
