package render

import (
	"bytes"
	"testing"

	"github.com/rpggio/tacboard/internal/domain/tac"
	"github.com/stretchr/testify/require"
)

func TestPieSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PieSVG(&buf, fixtureReport().Slices))
	out := buf.String()
	require.Contains(t, out, "<svg")
	require.Contains(t, out, "67% (2)")
}

func TestPieSVG_Empty(t *testing.T) {
	var buf bytes.Buffer
	err := PieSVG(&buf, tac.Tally{}.Slices())
	require.ErrorIs(t, err, ErrNothingToChart)
	require.Zero(t, buf.Len())
}
