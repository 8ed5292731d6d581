// Package metadata defines the connector property model shared by every other
// package: the property metadata tree an identity server publishes for a
// pluggable connector (federated authenticator, provisioning connector) and
// the flat key/value property list holding the connector's configuration.
//
// Metadata trees are small (bounded by the connector's UI schema), so lookups
// are linear scans rather than indexed maps. Values keep the order in which
// the server returned them; that order is observable in derived custom
// property strings and in submission payloads.
//
// Documents are decoded from JSON with a YAML fallback so fixtures and local
// overrides can be hand written. Loading from files, fs.FS entries or URLs is
// described by the Source and Loader contracts; the implementation lives in
// internal/metadata/loader and is constructed through the root package.
package metadata
