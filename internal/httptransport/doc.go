// Package httptransport implements resource.Transport over net/http.
//
// The transport owns everything the resource client deliberately leaves
// out: the base URL, timeouts, credentials, client-side pacing, request
// metrics and retries. Retries use exponential backoff and apply only to GET
// by default, so a create is never sent twice unless the caller asks for it
// with WithRetryMethods.
package httptransport
