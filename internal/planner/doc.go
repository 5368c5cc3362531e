// Package planner holds the arithmetic of a contact sheet: how many
// thumbnails a video can yield, where to seek for each, how to pad a short
// result, and how the fixed canvas divides into cells.
//
// Everything here is pure: no I/O, no logging. The pipeline feeds it probe
// results and config constants and acts on what comes back.
package planner
