// Package registry reads the list of published dictionaries and their
// descriptive metadata.
//
// The registry file is a JSON document with a single root object,
// "mmcif_dictionary_registry":
//
//	{
//	  "mmcif_dictionary_registry": {
//	    "pdbxDictionaryNameList": ["mmcif_pdbx_v50", "mmcif_ddl"],
//	    "otherDictionaryNameList": ["mmcif_ihm"],
//	    "internalDictionaryNameList": ["mmcif_rcsb_xray"],
//	    "dictionaryInfo": {
//	      "mmcif_pdbx_v50": {"title": "...", "schema": "pdbx-v50"}
//	    }
//	  }
//	}
//
// Public site pages cover [Registry.Names]; internal dictionaries get pages
// too but are listed on a separate download page.
package registry
