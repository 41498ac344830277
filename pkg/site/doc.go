// Package site renders the static documentation pages of a dictionary.
//
// The generated tree lives under a web document root:
//
//	<docs>/dictionaries/<name>.dic/
//	    Index/index.html          dictionary overview and revision history
//	    Groups/index.html         category group index, one page per group
//	    Categories/index.html     alphabetical category index, one page per category
//	    Items/index.html          alphabetical item index, one page per item
//	    Data/index.html           supporting data (types, units, subcategories)
//	    Images/Categories/        neighbor figures referenced by category pages
//
// Pages are thin: shared chrome is pulled in with server-side include
// directives, which [Server] expands when previewing a tree locally.
//
// [PathInfo] maps content names to URLs and files, [Content] produces the
// page bodies from a [dictionary.API], and [Generator] writes them.
package site
