// Package naming derives every path the tool writes: the contact sheet next
// to its siblings in the output folder, and the per-video scratch directory
// and thumbnail files under <output>/temp.
package naming
