// Package revq is the public facade for the review-queue reconciler.
//
// It keeps a human-edited Markdown task document in sync with the open
// pull requests of one repository: classifying them into ranked
// categories, appending the missing task entries, cancelling entries
// whose pull request closed, and pushing day-deduplicated alerts.
//
// The document stays yours. revq only appends below a marker heading
// and flips checkbox states; manual edits, ordering, and anything
// outside its own entry grammar are left untouched.
//
// Usage:
//
//	cfg, err := revq.LoadConfig(revq.DefaultConfigPath())
//	eng, err := revq.New(cfg, revq.WithLogger(logger))
//	summary, err := eng.Run(ctx)
package revq
