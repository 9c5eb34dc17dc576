// Package urls holds links to reference documentation shown in
// troubleshooting output.
package urls
