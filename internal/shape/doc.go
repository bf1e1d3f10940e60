// Package shape synthesizes target point distributions for the particle
// cloud.
//
// Every generator returns a fresh [cloud.Buffer] of exactly the requested
// particle count. Generators are stochastic in fine detail only, so callers
// that need a stable target build once and keep the buffer; [Library] does
// that keyed by silhouette.
//
//   - [Tree]: golden-angle spiral fir tree with branch tiers and clumps
//   - [Heart]: rejection-sampled implicit heart surface
//   - [Text]: rasterized string sampled into a planar point set
//
// The tree's radius law is exported through [Geometry] so decorations can sit
// on the same silhouette.
package shape
