// Package ffmpeg builds and runs the single-frame ffmpeg grabs that feed a
// contact sheet.
//
// Each grab is one ffmpeg process: input seek to a whole-second timestamp,
// one output frame, JPEG at a fixed -q:v. Every call gets its own deadline.
// A grab that times out or leaves no output file is reported with a sentinel
// error ([ErrTimeout], [ErrNoOutput]) so the caller can skip that index and
// keep going.
package ffmpeg
