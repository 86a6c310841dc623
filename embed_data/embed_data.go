package embed_data

import _ "embed"

// PythonImportQuery holds the tree-sitter queries (JSON map of tag -> query)
// used to capture import statements at any nesting depth.
//
//go:embed python_import_query.json
var PythonImportQuery []byte

// StdlibModules is the static standard-library module table for the target
// Python version, one module name per line. Refreshed per Python release
// rather than introspected at run time.
//
//go:embed stdlib_modules.txt
var StdlibModules []byte
