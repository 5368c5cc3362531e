// Package sheet draws a contact sheet: a black canvas with a white text
// header band on top and a grid of resized thumbnails below, written out as
// a single JPEG.
//
// Text is rendered with golang.org/x/image/font from either a user supplied
// TrueType/OpenType file or the embedded Go Regular face. Thumbnails are
// stretched to the cell size with Lanczos resampling.
package sheet
