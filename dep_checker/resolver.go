package dep_checker

import (
	"os"
	"path/filepath"
)

// Resolution classifies one imported module name.
type Resolution int

const (
	// ResolvedExternal maps the import to a published package name.
	ResolvedExternal Resolution = iota
	// ResolvedStdLib excludes the import as standard library.
	ResolvedStdLib
	// ResolvedInternal excludes the import as a module local to the project.
	ResolvedInternal
)

// NameResolver maps extracted module names to the most likely published
// package name. Resolution is heuristic and best-effort; it never fails — an
// unknown name degrades to identity mapping.
type NameResolver struct {
	projectRoot string
	stdlib      map[string]bool
}

func NewNameResolver(projectRoot string) *NameResolver {
	return &NameResolver{
		projectRoot: projectRoot,
		stdlib:      stdlibModules(),
	}
}

// Resolve classifies moduleName with the precedence: standard library, then
// project-local module, then alias table, then identity.
func (nr *NameResolver) Resolve(moduleName string) (string, Resolution) {
	if nr.stdlib[moduleName] {
		return "", ResolvedStdLib
	}
	if nr.isLocalModule(moduleName) {
		return "", ResolvedInternal
	}
	if packageName, ok := knownImportAliases[moduleName]; ok {
		return packageName, ResolvedExternal
	}
	return moduleName, ResolvedExternal
}

// isLocalModule probes for a same-named module or package physically present
// inside the project root, including the conventional src/ layout.
func (nr *NameResolver) isLocalModule(moduleName string) bool {
	candidates := []string{
		filepath.Join(nr.projectRoot, moduleName+".py"),
		filepath.Join(nr.projectRoot, moduleName, "__init__.py"),
		filepath.Join(nr.projectRoot, "src", moduleName+".py"),
		filepath.Join(nr.projectRoot, "src", moduleName, "__init__.py"),
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return true
		}
	}
	return false
}
