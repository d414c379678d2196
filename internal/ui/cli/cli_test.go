package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/janpfeifer/hexdomains/internal/generics"
	"github.com/janpfeifer/hexdomains/internal/hexgrid"
	"github.com/janpfeifer/hexdomains/internal/shape"
	"github.com/janpfeifer/hexdomains/internal/shape/shapetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap(t *testing.T) {
	g, err := hexgrid.NewRectangle(3, 2, 1)
	require.NoError(t, err)
	ids := []float32{0, 0, 0, 0, 0.5, 0}
	ui := New(nil, false)
	assert.Equal(t, " a b a\na a a\n", ui.Map(g, ids, nil))
	assert.Equal(t, " a B a\nA a a\n", ui.Map(g, ids, generics.SetWith(0, 4)))
	assert.Equal(t, "a=0 b=0.5", ui.Legend(ids))
}

func TestDisplayWidth(t *testing.T) {
	assert.Equal(t, 3, displayWidth("\x1b[1;31mabc\x1b[0m"))
}

func TestPrintAnalysis(t *testing.T) {
	g, ids := shapetest.Sectors(t)
	a, err := shape.New(g, ids, shape.DefaultOptions())
	require.NoError(t, err)
	domains, err := a.DirichletDomains()
	require.NoError(t, err)

	var buf bytes.Buffer
	New(&buf, false).PrintAnalysis("sectors", g, ids, domains)
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "== sectors ==\n"))
	// 13 rows of cells, plus title, legend, summary header and one domain.
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1+13+1+1+1+1)
	assert.Contains(t, out, "a=0 b=0.25 c=0.5 d=0.75")
	assert.Equal(t, 3, strings.Count(out, "A"))
	fields := strings.Fields(lines[len(lines)-1])
	assert.Equal(t, []string{"0", "3"}, fields[:2])
}
