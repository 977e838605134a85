// Package events defines the change notifications published by the
// configuration service and a client that subscribes to them over a
// websocket.
package events
