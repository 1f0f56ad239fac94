// Package core provides a small, stable facade over the internal detection
// engine for external integrations. It deliberately re-exports a narrow API
// surface so other tools can depend on a stable import path without reaching
// into internal packages.
//
// Example:
//
//	cfg, err := core.LoadConfig(".", "")
//	if err != nil { /* handle */ }
//	res, err := core.Scan(context.Background(), core.Options{Root: ".", Config: cfg})
//	if err != nil { /* handle */ }
//	_ = core.WriteReport(os.Stdout, res)
package core
