// Package coverage tracks how often dictionary items are used in each
// delivery context.
//
// Usage statistics come from tab-delimited coverage files ("item<TAB>count")
// produced by scanning the PDB archive and the chemical reference
// dictionaries. Each [Context] has its own file and its own counts; category
// counts are derived as the maximum count of the category's items.
//
// Contexts without a registered file read as all-zero rather than failing,
// so a site can be built before any scans exist.
package coverage
