package replicating

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vfg2006/oea-pipeline/infrastructure/integrator/sheets/mocks"
)

func makeRows(n, width int) [][]any {
	rows := make([][]any, n)
	for i := range rows {
		rows[i] = make([]any, width)
		for j := range rows[i] {
			rows[i][j] = i
		}
	}
	return rows
}

func TestPlanChunks_5000By2000(t *testing.T) {
	chunks, err := PlanChunks("A", 3, "AN", makeRows(5000, 40), 2000)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	assert.Equal(t, 0, chunks[0].Start)
	assert.Equal(t, 2000, chunks[0].End)
	assert.Equal(t, "A3:AN2002", chunks[0].Range)

	assert.Equal(t, 2000, chunks[1].Start)
	assert.Equal(t, 4000, chunks[1].End)
	assert.Equal(t, "A2003:AN4002", chunks[1].Range)

	assert.Equal(t, 4000, chunks[2].Start)
	assert.Equal(t, 5000, chunks[2].End)
	assert.Equal(t, 1000, chunks[2].Len())
	assert.Equal(t, "A4003:AN5002", chunks[2].Range)

	for i, c := range chunks {
		assert.Equal(t, i+1, c.Index)
		assert.Equal(t, 3, c.Total)
	}
}

func TestPlanChunks_WidthFromFirstRow(t *testing.T) {
	chunks, err := PlanChunks("A", 1, "", makeRows(3, 37), 2000)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "A1:AK3", chunks[0].Range)

	chunks, err = PlanChunks("E", 2, "", makeRows(2, 1), 2000)
	require.NoError(t, err)
	assert.Equal(t, "E2:E3", chunks[0].Range)
}

func TestPlanChunks_Invalid(t *testing.T) {
	_, err := PlanChunks("A", 1, "", makeRows(1, 1), 0)
	assert.ErrorIs(t, err, ErrInvalidChunk)

	_, err = PlanChunks("1", 1, "", makeRows(1, 1), 10)
	assert.ErrorIs(t, err, ErrInvalidAnchor)

	chunks, err := PlanChunks("A", 1, "", nil, 10)
	assert.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestChunkedWriter_Write(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSheets := mocks.NewMockSheetsIntegrator(ctrl)
	rows := makeRows(5000, 2)

	gomock.InOrder(
		mockSheets.EXPECT().UpdateValues(gomock.Any(), "destino", "'BD_Mensal'!A1:B2000", rows[0:2000]).Return(nil),
		mockSheets.EXPECT().UpdateValues(gomock.Any(), "destino", "'BD_Mensal'!A2001:B4000", rows[2000:4000]).Return(nil),
		mockSheets.EXPECT().UpdateValues(gomock.Any(), "destino", "'BD_Mensal'!A4001:B5000", rows[4000:5000]).Return(nil),
	)

	var seen []int
	chunks, err := NewChunkedWriter(mockSheets, "destino", "BD_Mensal", 2000).
		OnChunk(func(c Chunk, _ time.Duration) { seen = append(seen, c.Len()) }).
		Write(context.Background(), "A", 1, "", rows)

	require.NoError(t, err)
	assert.Len(t, chunks, 3)
	assert.Equal(t, []int{2000, 2000, 1000}, seen)
}

func TestChunkedWriter_StopsOnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSheets := mocks.NewMockSheetsIntegrator(ctrl)
	apiErr := errors.New("quota")

	gomock.InOrder(
		mockSheets.EXPECT().UpdateValues(gomock.Any(), "destino", "A3:AN4", gomock.Any()).Return(nil),
		mockSheets.EXPECT().UpdateValues(gomock.Any(), "destino", "A5:AN6", gomock.Any()).Return(apiErr),
	)

	chunks, err := NewChunkedWriter(mockSheets, "destino", "", 2).
		Write(context.Background(), "A", 3, "AN", makeRows(6, 40))

	assert.ErrorIs(t, err, ErrWriteDest)
	assert.ErrorIs(t, err, apiErr)
	assert.Len(t, chunks, 1)
}
