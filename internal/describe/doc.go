// Package describe renders tool description templates.
//
// Tool descriptions advertised to the calling agent must embed live,
// deployment-specific values: the searchable metadata field vocabulary
// discovered at handshake, and the base URL used in citation links. These
// belong in the description text rather than the tool's structured schema
// because the agent reads them as prose when deciding how to query.
//
// Templates use an enumerated set of %%NAME%% markers. Rendering substitutes
// every known marker and fails if any marker remains, so a malformed
// template is caught at startup instead of being served verbatim.
package describe
