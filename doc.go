// Package terpmatch turns dispensary menus into personalized strain
// recommendations.
//
// A scan runs in two stages. Extraction reads a menu photo (tiled into
// overlapping bands for large images, one vision call per tile) or a
// saved menu page (heuristic card scan with LLM categorization as the
// fallback) and produces a deduplicated strain list, recovering partial
// records from malformed model output along the way. Matching then
// resolves each strain to a full terpene profile — from the cache or by
// LLM generation — and ranks the menu against an ideal profile pooled
// from the user's liked strains, using a weighted ensemble of cosine,
// euclidean and Pearson similarity over z-scored 11-dimension terpene
// vectors.
//
// Packages:
//
//   - model: shared data types, scan status stream, error taxonomy
//   - llm: provider abstraction (OpenAI, Anthropic, Google)
//   - tiler: image band splitting with overlap
//   - extract: vision and text extraction pipelines, JSON recovery
//   - similarity: the scoring engine
//   - store: strain cache and preference backends (memory, sqlite,
//     redis, postgres)
//   - scan: the orchestrator
//   - recommend: similar strains, search, terpene reference
//   - config, log, cmd/terpmatch: wiring
package terpmatch
