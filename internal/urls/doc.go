// Package urls holds the documentation links printed by the command line
// tools, so they can be updated in one place.
//
// Usage:
//
//	import "github.com/jeffmahoney/agama/internal/urls"
//
//	fmt.Printf("For more information, see: %s\n", urls.ProjectSite)
package urls
