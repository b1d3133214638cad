package types

// Rule maps files to the directory they should be relocated into.
// It is used within the application's configuration.
type Rule struct {
	Match  string `yaml:"match"`  // Glob pattern to match filenames (e.g., "*.mkv", "invoice_*.pdf").
	Target string `yaml:"target"` // Directory path matched files should be moved to (e.g., "Media/Video", "/archive/invoices").
}
