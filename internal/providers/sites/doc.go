// Package sites implements providers.Adapter for each supported comic
// site. Every adapter fetches one page and looks for exactly one strip
// image in it; the selectors track the publishers' current markup and are
// expected to break when that markup changes.
package sites
