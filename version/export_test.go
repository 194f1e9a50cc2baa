package version

// RevisionFrom exposes revision for tests.
var RevisionFrom = revision
