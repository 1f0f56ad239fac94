// Package config resolves the effective ssq configuration from the embedded
// base document and an optional project-local .ssq.yml, applying the declared
// merge/replace semantics. It is internal; CLI code maps flags and the
// resolved configuration into engine options.
package config
