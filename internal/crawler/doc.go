// Package crawler defines the fetch pipeline types shared by the sitemap
// extractor, the HTTP fetchers, the workers and the orchestrator, and owns the
// rate-limit aware page fetcher.
package crawler
