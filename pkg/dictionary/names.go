package dictionary

import "strings"

// CategoryPart returns the category of a fully qualified item name.
//
//	CategoryPart("_atom_site.label_atom_id") == "atom_site"
func CategoryPart(item string) string {
	name := strings.TrimPrefix(item, "_")
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}

// AttributePart returns the attribute of a fully qualified item name, or ""
// when the name carries no attribute.
func AttributePart(item string) string {
	if i := strings.IndexByte(item, '.'); i >= 0 {
		return item[i+1:]
	}
	return ""
}

// ItemName joins a category and an attribute into "_category.attribute".
func ItemName(category, attribute string) string {
	return "_" + category + "." + attribute
}

// IsMandatory reports whether a mandatory code reads as "yes".
func IsMandatory(code string) bool {
	return code == "yes" || code == "y"
}
