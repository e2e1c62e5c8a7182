// Package api wraps the fitness backend REST endpoints. A Client attaches the
// bearer token obtained from an injected Auth on every call and returns the
// decoded JSON body unmodified. Resource exposes the list/get/create/update/
// delete set for one collection path; association helpers cover the
// relationship endpoints used by the popups.
//
// Calls are independent: no retries, caching or request deduplication.
package api
