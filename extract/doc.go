// Package extract converts dispensary menus into ExtractedStrain lists.
//
// Two ingestion paths share one output contract: VisionPipeline drives the
// image tiler and a vision completion per tile, and TextPipeline handles
// HTML-sourced menus with a heuristic card scan backed by a two-pass LLM
// categorize-then-detail flow. Both tolerate truncated or malformed model
// output through an ordered list of increasingly lossy recovery parsers.
package extract
