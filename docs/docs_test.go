package docs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

var routeAnnotation = regexp.MustCompile(`(?m)^// @Router\s+(\S+)\s+\[(\w+)\]`)

// TestDocMatchesRouteAnnotations fails when a handler annotation changes
// without regenerating docs.go via go generate ./cmd/cinemago.
func TestDocMatchesRouteAnnotations(t *testing.T) {
	files, err := filepath.Glob("../internal/transport/http/gin/*.go")
	require.NoError(t, err)

	annotated := map[string]bool{}
	for _, f := range files {
		if strings.HasSuffix(f, "_test.go") {
			continue
		}
		src, err := os.ReadFile(f)
		require.NoError(t, err)
		for _, m := range routeAnnotation.FindAllStringSubmatch(string(src), -1) {
			annotated[strings.ToLower(m[2])+" "+m[1]] = true
		}
	}
	require.NotEmpty(t, annotated)

	raw, err := swag.ReadDoc()
	require.NoError(t, err)

	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	documented := map[string]bool{}
	for path, ops := range doc.Paths {
		for method := range ops {
			documented[method+" "+path] = true
		}
	}

	assert.Equal(t, annotated, documented)
}
