package resource

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jeffmahoney/agama/internal/urls"
)

// TroubleshootingHint returns multi-line advice for an error returned by a
// Client or Service.
func TroubleshootingHint(err error) string {
	var transportErr *TransportError
	var decodeErr *DecodeError
	var serviceErr *ServiceError

	switch {
	case errors.Is(err, ErrEmptyID):
		return "The record has no id. Set the id field before sending it."

	case errors.As(err, &serviceErr):
		return serviceHint(serviceErr)

	case errors.As(err, &decodeErr):
		return strings.Join([]string{
			"The service answered with a body that could not be decoded.",
			"Troubleshooting:",
			"  • Check that the base URL points at the configuration service API",
			"  • The client and the service may be different versions",
			"  • Run with --log-level=debug to see the raw response",
		}, "\n")

	case errors.As(err, &transportErr):
		return transportHint(transportErr)

	default:
		return "An error occurred. Please check the error message for details."
	}
}

func transportHint(e *TransportError) string {
	switch e.Subtype {
	case NetworkErrorTimeout:
		return strings.Join([]string{
			"The service did not respond in time.",
			"Troubleshooting:",
			"  • Check that the service is running",
			"  • Try increasing the timeout with --timeout",
		}, "\n")
	case NetworkErrorConnectionRefused:
		return strings.Join([]string{
			"The service refused the connection.",
			"Troubleshooting:",
			"  • Check that the service is running and listening on the configured port",
			"  • Verify the base URL with 'agama-net config show'",
			"  • Try 'agama-net discover' to find services on the local network",
		}, "\n")
	case NetworkErrorDNS:
		return strings.Join([]string{
			"Could not resolve the service hostname.",
			"Troubleshooting:",
			"  • Use the IP address instead of the hostname",
			"  • Check your DNS settings",
		}, "\n")
	case NetworkErrorHostUnreachable, NetworkErrorNetworkUnreachable:
		return strings.Join([]string{
			"The service host is not reachable.",
			"Troubleshooting:",
			"  • Verify the address in the base URL",
			"  • Check that you are on the same network as the installer",
			"  • See " + urls.ProjectSite + " for remote access setup",
		}, "\n")
	case NetworkErrorCanceled:
		return "The operation was canceled."
	default:
		return strings.Join([]string{
			"Network communication failed.",
			"Troubleshooting:",
			"  • Check your network connection",
			"  • Verify the base URL",
		}, "\n")
	}
}

func serviceHint(e *ServiceError) string {
	switch {
	case e.NotFound():
		return "The service has no such record. List the collection to see the available ids."
	case e.Conflict():
		return "The service rejected the change as conflicting. See the service diagnostic above."
	case e.StatusCode == http.StatusBadRequest:
		return "The service rejected the request. Check the record against the service diagnostic."
	case e.StatusCode >= 500:
		return strings.Join([]string{
			fmt.Sprintf("The service failed while handling the request (HTTP %d).", e.StatusCode),
			"Troubleshooting:",
			"  • Read the service diagnostic for the cause",
			"  • Check the service logs",
			"  • Report persistent failures at " + urls.IssueTracker,
		}, "\n")
	default:
		return fmt.Sprintf("The service returned HTTP %d. Check the request parameters.", e.StatusCode)
	}
}

// ShortMessage returns a one-line description of err suitable for a status line.
func ShortMessage(err error) string {
	var transportErr *TransportError
	var serviceErr *ServiceError

	switch {
	case errors.As(err, &serviceErr):
		if serviceErr.Body != "" {
			return fmt.Sprintf("Service error %d: %s", serviceErr.StatusCode, firstLine(serviceErr.Body))
		}
		return fmt.Sprintf("Service error %d", serviceErr.StatusCode)
	case IsDecodeError(err):
		return "Unexpected response from service"
	case errors.As(err, &transportErr):
		switch transportErr.Subtype {
		case NetworkErrorTimeout:
			return "Service not responding (timeout)"
		case NetworkErrorConnectionRefused:
			return "Service refused connection - is it running?"
		case NetworkErrorDNS:
			return "Cannot resolve service hostname"
		case NetworkErrorHostUnreachable:
			return "Service host unreachable"
		case NetworkErrorNetworkUnreachable:
			return "Network unreachable"
		case NetworkErrorCanceled:
			return "Canceled"
		default:
			return "Network error"
		}
	default:
		if err == nil {
			return ""
		}
		return err.Error()
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
