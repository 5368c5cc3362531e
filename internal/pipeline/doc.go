// Package pipeline runs the batch: discover videos in the input folder, then
// for each one probe it, grab its thumbnails, draw and save the sheet, and
// clean up the scratch files. Videos are processed one at a time; a failure
// on one video is logged and the batch moves on.
package pipeline
