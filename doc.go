// Package stonemock turns structured descriptions of rectangular stone
// pieces (dimensions in inches, polished edges, material, thickness)
// into annotated scale drawings and paginated PDF documents.
//
// The module is organized around three building blocks:
//
//   - fraction converts between decimal inches and the fraction-string
//     notation used on shop drawings ("24-1/2").
//   - mockraster draws one piece, scaled to fit a fixed 800x600 logical
//     surface, with grid, polished-edge and label overlays.
//   - mockpdf assembles rendered pieces into single- or multi-page PDF
//     documents and delivers them to the host platform.
//
// The stone package defines the shared value types, and project loads
// piece collections from YAML files.
//
// stonemock produces no log output by default; see SetLogger.
package stonemock
