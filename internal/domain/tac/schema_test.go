package tac_test

import (
	"errors"
	"testing"

	"github.com/rpggio/tacboard/internal/domain/tac"
	"github.com/stretchr/testify/require"
)

func TestResolveHeader(t *testing.T) {
	header := append([]string{" extra "}, tac.Headers()...)
	header[2] = " documento "
	pos, err := tac.ResolveHeader(header)
	require.NoError(t, err)
	require.Equal(t, 1, pos[tac.ColYear])
	require.Equal(t, 2, pos[tac.ColDocument])
	require.Equal(t, len(tac.Schema), pos[tac.ColSubSubClauseNotes])
}

func TestResolveHeader_MissingColumns(t *testing.T) {
	_, err := tac.ResolveHeader([]string{"ANO", "DOCUMENTO", "CLAUSULA"})
	require.ErrorIs(t, err, tac.ErrSchemaMismatch)

	var schemaErr *tac.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	require.Contains(t, schemaErr.Missing, "STATUS_CLAUSULA")
	require.NotContains(t, schemaErr.Missing, "ANO")
	require.Contains(t, err.Error(), "STATUS_INCISO")
}

func TestRecord_ValueRoundTrip(t *testing.T) {
	var rec tac.Record
	for i, col := range tac.Schema {
		rec.Set(col, string(rune('a'+i)))
	}
	values := rec.Values()
	for i, col := range tac.Schema {
		require.Equal(t, values[i], rec.Value(col))
	}
	require.Equal(t, [3]string{rec.ClauseStatus, rec.SubClauseStatus, rec.SubSubClauseStatus}, rec.Statuses())
	require.Equal(t, "", rec.Value("UNKNOWN"))
}
