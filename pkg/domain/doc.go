// Package domain contains the core entities of the briefing tool: points of
// interest and their affiliations. The types are plain values, free of
// storage and rendering concerns, so every layer can share them.
package domain
