// Package api exposes health and Prometheus endpoints while an extraction run is in progress.
package api
