package dep_checker

import (
	"encoding/json"
	"fmt"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/pydepsync/pydepsync/dep_checker/models"
	"github.com/pydepsync/pydepsync/embed_data"
)

const relativeImportTag = "relative"

// ImportExtractor parses Python source and extracts the import statements it
// contains, at any nesting depth. Queries are compiled once and reused; the
// parser itself is created per call since it is not safe for concurrent use.
type ImportExtractor struct {
	queries map[string]*sitter.Query
}

// NewImportExtractor compiles the embedded tree-sitter import queries.
func NewImportExtractor() (*ImportExtractor, error) {
	rawQueries := make(map[string]string)
	if err := json.Unmarshal(embed_data.PythonImportQuery, &rawQueries); err != nil {
		return nil, fmt.Errorf("failed to parse embedded import queries: %w", err)
	}

	queries := make(map[string]*sitter.Query, len(rawQueries))
	for tag, queryStr := range rawQueries {
		query, err := sitter.NewQuery([]byte(queryStr), python.GetLanguage())
		if err != nil {
			return nil, fmt.Errorf("failed to compile query %q: %w", tag, err)
		}
		queries[tag] = query
	}

	return &ImportExtractor{queries: queries}, nil
}

// Extract returns the import records found in sourceCode, ordered by line.
// Content that is not syntactically valid Python yields a models.ParseError;
// the caller fills in the path.
func (ex *ImportExtractor) Extract(sourceCode []byte) ([]models.ImportRecord, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree := parser.Parse(nil, sourceCode)
	root := tree.RootNode()

	if root.HasError() {
		line := firstErrorLine(root)
		return nil, models.ParseError{
			Line:    line,
			Message: fmt.Sprintf("syntax error at line %d", line),
		}
	}

	var records []models.ImportRecord
	for tag, query := range ex.queries {
		cursor := sitter.NewQueryCursor()
		cursor.Exec(query, root)

		for {
			match, ok := cursor.NextMatch()
			if !ok {
				break
			}
			for _, cap := range match.Captures {
				records = append(records, models.ImportRecord{
					ModuleName: cap.Node.Content(sourceCode),
					IsRelative: tag == relativeImportTag,
					Line:       int(cap.Node.StartPoint().Row) + 1,
				})
			}
		}
	}

	// Query tags iterate in map order; re-establish source order.
	sort.Slice(records, func(i, j int) bool {
		if records[i].Line != records[j].Line {
			return records[i].Line < records[j].Line
		}
		return records[i].ModuleName < records[j].ModuleName
	})
	return records, nil
}

// firstErrorLine locates the first ERROR or missing node for diagnostics.
func firstErrorLine(node *sitter.Node) int {
	if node.Type() == "ERROR" || node.IsMissing() {
		return int(node.StartPoint().Row) + 1
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if !child.HasError() {
			continue
		}
		if line := firstErrorLine(child); line > 0 {
			return line
		}
	}
	if node.HasError() {
		return int(node.StartPoint().Row) + 1
	}
	return 1
}
