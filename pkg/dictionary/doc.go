// Package dictionary is the read-only query surface over a PDBx/mmCIF
// dictionary.
//
// Parsing dictionary text is not done here. Dictionaries arrive as exported
// snapshots (JSON or YAML) holding the category, item, type and history
// records that the site pages and the neighbor figures need. [Load] decodes
// one snapshot and [Loader] resolves snapshots by dictionary name.
//
// Item names are fully qualified ("_category.attribute"); see [CategoryPart],
// [AttributePart] and [ItemName]. Child relations are mirrored from declared
// parents at load time, so callers can rely on both directions being present.
//
// # Usage
//
//	d, err := dictionary.Load("assets/dictionaries/mmcif_pdbx_v50.json")
//	if err != nil {
//	    return err
//	}
//	for _, item := range d.ItemNames("atom_site") {
//	    fmt.Println(item, d.ParentItems("atom_site", dictionary.AttributePart(item)))
//	}
package dictionary
