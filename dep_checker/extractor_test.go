package dep_checker

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pydepsync/pydepsync/dep_checker/models"
)

func newExtractor(t *testing.T) *ImportExtractor {
	t.Helper()
	ex, err := NewImportExtractor()
	require.NoError(t, err)
	return ex
}

func extractModules(t *testing.T, source string) []string {
	t.Helper()
	records, err := newExtractor(t).Extract([]byte(source))
	require.NoError(t, err)

	var modules []string
	for _, r := range records {
		if !r.IsRelative {
			modules = append(modules, r.ModuleName)
		}
	}
	return modules
}

func TestExtract_PlainImport(t *testing.T) {
	assert.Equal(t, []string{"os"}, extractModules(t, "import os\n"))
}

func TestExtract_DottedImport(t *testing.T) {
	records, err := newExtractor(t).Extract([]byte("import os.path\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "os.path", records[0].ModuleName)
	assert.Equal(t, "os", records[0].Root())
}

func TestExtract_MultipleNamesOneStatement(t *testing.T) {
	assert.ElementsMatch(t, []string{"json", "sys"}, extractModules(t, "import json, sys\n"))
}

func TestExtract_AliasedImport(t *testing.T) {
	assert.Equal(t, []string{"numpy"}, extractModules(t, "import numpy as np\n"))
}

func TestExtract_FromImport(t *testing.T) {
	assert.Equal(t, []string{"flask"}, extractModules(t, "from flask import Flask, request\n"))
}

func TestExtract_FromDottedImport(t *testing.T) {
	records, err := newExtractor(t).Extract([]byte("from urllib.parse import urljoin\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "urllib", records[0].Root())
}

func TestExtract_RelativeImportsFlagged(t *testing.T) {
	source := "from . import helper\nfrom .sibling import thing\nfrom ..pkg import other\n"
	records, err := newExtractor(t).Extract([]byte(source))
	require.NoError(t, err)
	require.Len(t, records, 3)
	for _, r := range records {
		assert.True(t, r.IsRelative, "record %q should be relative", r.ModuleName)
	}
}

// Imports inside functions, conditionals, and exception handlers must still
// be extracted: a dependency used only in a function body still needs to be
// declared.
func TestExtract_NestedImports(t *testing.T) {
	source := `def handler():
    import requests
    return requests.get("/")

try:
    import lxml
except ImportError:
    lxml = None

if True:
    from yaml import safe_load
`
	assert.ElementsMatch(t, []string{"requests", "lxml", "yaml"}, extractModules(t, source))
}

func TestExtract_LineNumbersInSourceOrder(t *testing.T) {
	source := "import os\n\nimport sys\nfrom json import loads\n"
	records, err := newExtractor(t).Extract([]byte(source))
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, 1, records[0].Line)
	assert.Equal(t, "os", records[0].ModuleName)
	assert.Equal(t, 3, records[1].Line)
	assert.Equal(t, "sys", records[1].ModuleName)
	assert.Equal(t, 4, records[2].Line)
	assert.Equal(t, "json", records[2].ModuleName)
}

func TestExtract_NoImports(t *testing.T) {
	records, err := newExtractor(t).Extract([]byte("x = 1\nprint(x)\n"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestExtract_SyntaxErrorIsParseError(t *testing.T) {
	_, err := newExtractor(t).Extract([]byte("def broken(:\n    pass\n"))
	require.Error(t, err)

	var parseErr models.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.NotEmpty(t, parseErr.Message)
	assert.GreaterOrEqual(t, parseErr.Line, 1)
}

func TestExtract_StringsAreNotImports(t *testing.T) {
	source := "s = \"import requests\"\n# import flask\n"
	assert.Empty(t, extractModules(t, source))
}
