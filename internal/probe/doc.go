// Package probe provides ffprobe-based media inspection. A single ffprobe
// call per file asks for the container duration and the stream dimensions
// in ffprobe's default "key=value" writer; the lines are folded into a flat
// map and then into a [Metadata] record.
//
// Missing or malformed values never fail a probe: they decode to zero and
// callers fall back to defaults (see [Metadata.AspectRatio]).
package probe
