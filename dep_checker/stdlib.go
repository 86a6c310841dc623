package dep_checker

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/pydepsync/pydepsync/embed_data"
)

// stdlibModules returns the standard-library membership set from the
// embedded, compile-time table.
func stdlibModules() map[string]bool {
	modules := make(map[string]bool)
	sc := bufio.NewScanner(bytes.NewReader(embed_data.StdlibModules))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		modules[line] = true
	}
	return modules
}
