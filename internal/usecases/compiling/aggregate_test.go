package compiling

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/oea-pipeline/internal/domain"
)

func monthTable(origin string, header []string, rows ...[]string) *domain.Table {
	tbl := domain.NewTable(header)
	for _, r := range rows {
		tbl.AppendRow(r)
	}
	tbl.SetColumn(domain.SourceFileColumn, origin)
	tbl.SetColumn(domain.SourceIDColumn, "id-"+origin)
	return tbl
}

func TestBuildDaily_UnionOfColumns(t *testing.T) {
	march := monthTable("03-2025.csv", []string{"Data", "Obra"},
		[]string{"01/03/2025", "Ponte"},
		[]string{"02/03/2025", "Ponte"},
	)
	april := monthTable("04-2025.csv", []string{"Data", "Valor", "Obra"},
		[]string{"01/04/2025", "10,5", "Viaduto"},
	)

	daily := BuildDaily([]*domain.Table{march, april})

	assert.Equal(t, []string{"Data", "Obra", domain.SourceFileColumn, domain.SourceIDColumn, "Valor"}, daily.Header)
	require.Equal(t, march.Len()+april.Len(), daily.Len())
	assert.Equal(t, []string{"01/03/2025", "Ponte", "03-2025.csv", "id-03-2025.csv", ""}, daily.Rows[0])
	assert.Equal(t, []string{"01/04/2025", "Viaduto", "04-2025.csv", "id-04-2025.csv", "10,5"}, daily.Rows[2])
}

func TestBuildDaily_KeepsRepeatedColumns(t *testing.T) {
	tbl, err := parseCSVWithFallback([]byte("Data,Valor,Valor,\n05/03/2025,1,2,3\n"))
	require.NoError(t, err)
	tbl.SetColumn(domain.SourceFileColumn, "03-2025.csv")

	daily := BuildDaily([]*domain.Table{tbl})

	assert.Equal(t, []string{"Data", "Valor", "Valor.1", "Unnamed: 3", domain.SourceFileColumn}, daily.Header)
	require.Equal(t, 1, daily.Len())
	assert.Equal(t, []string{"05/03/2025", "1", "2", "3", "03-2025.csv"}, daily.Rows[0])

	monthly := BuildMonthly(daily)
	require.Equal(t, 1, monthly.Len())
	assert.Equal(t, daily.Rows[0], monthly.Rows[0])
}

func TestBuildDaily_Empty(t *testing.T) {
	daily := BuildDaily(nil)
	assert.True(t, daily.Empty())
	assert.True(t, BuildMonthly(daily).Empty())
}

func TestBuildMonthly(t *testing.T) {
	header := []string{"Data", "Obra"}

	tests := []struct {
		name   string
		tables []*domain.Table
		want   [][]string
	}{
		{
			name: "empate na maior data entra completo",
			tables: []*domain.Table{
				monthTable("03-2025.csv", header,
					[]string{"28/03/2025", "A"},
					[]string{"31/03/2025", "B"},
					[]string{"31/03/2025", "C"},
				),
			},
			want: [][]string{
				{"31/03/2025", "B", "03-2025.csv", "id-03-2025.csv"},
				{"31/03/2025", "C", "03-2025.csv", "id-03-2025.csv"},
			},
		},
		{
			name: "arquivo sem data válida não contribui",
			tables: []*domain.Table{
				monthTable("05-2025.csv", header, []string{"sem data", "X"}, []string{"", "Y"}),
				monthTable("04-2025.csv", header, []string{"30/04/2025", "Z"}, []string{"lixo", "W"}),
			},
			want: [][]string{
				{"30/04/2025", "Z", "04-2025.csv", "id-04-2025.csv"},
			},
		},
		{
			name: "grupos ordenados pelo nome do arquivo",
			tables: []*domain.Table{
				monthTable("04-2025.csv", header, []string{"2025-04-30", "D"}),
				monthTable("03-2025.csv", header, []string{"2025-03-31 10:00", "E"}, []string{"2025-03-31", "F"}),
			},
			want: [][]string{
				{"2025-03-31 10:00", "E", "03-2025.csv", "id-03-2025.csv"},
				{"2025-04-30", "D", "04-2025.csv", "id-04-2025.csv"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			monthly := BuildMonthly(BuildDaily(tt.tables))
			if diff := cmp.Diff(tt.want, monthly.Rows); diff != "" {
				t.Errorf("linhas do mensal (-esperado +obtido):\n%s", diff)
			}
		})
	}
}

func TestLastDate(t *testing.T) {
	tbl := domain.NewTable([]string{"Data"})
	tbl.AppendRow([]string{"05/03/2025"})
	tbl.AppendRow([]string{"x"})
	tbl.AppendRow([]string{"10/03/2025"})

	d, ok := LastDate(tbl)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), d)

	_, ok = LastDate(domain.NewTable([]string{"Data"}))
	assert.False(t, ok)
}
