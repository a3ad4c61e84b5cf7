package compiling

import (
	"sort"
	"time"

	"github.com/vfg2006/oea-pipeline/internal/domain"
	"github.com/vfg2006/oea-pipeline/pkg/utils"
)

// BuildDaily concatena as tabelas. As colunas são unidas na ordem em que aparecem
// e células ausentes ficam vazias.
func BuildDaily(tables []*domain.Table) *domain.Table {
	daily := &domain.Table{}
	if len(tables) == 0 {
		return daily
	}

	index := map[string]int{}
	for _, tbl := range tables {
		for _, name := range tbl.Header {
			if _, ok := index[name]; ok {
				continue
			}
			index[name] = len(daily.Header)
			daily.Header = append(daily.Header, name)
		}
	}

	for _, tbl := range tables {
		positions := make([]int, len(tbl.Header))
		for i, name := range tbl.Header {
			positions[i] = index[name]
		}

		for _, row := range tbl.Rows {
			out := make([]string, len(daily.Header))
			for i, v := range row {
				out[positions[i]] = v
			}
			daily.Rows = append(daily.Rows, out)
		}
	}

	return daily
}

// BuildMonthly mantém, para cada arquivo de origem, as linhas cuja data da primeira
// coluna é a maior do arquivo. Empates entram todos. Arquivos sem data válida ficam de fora.
func BuildMonthly(daily *domain.Table) *domain.Table {
	monthly := &domain.Table{Header: daily.Header}
	if daily.Empty() || daily.Width() == 0 {
		return monthly
	}

	sourceCol := daily.ColumnIndex(domain.SourceFileColumn)
	if sourceCol < 0 {
		return monthly
	}

	type group struct {
		rows  []int
		dates []time.Time
		valid []bool
		max   time.Time
		has   bool
	}

	groups := map[string]*group{}
	for i, row := range daily.Rows {
		origin := row[sourceCol]
		g, ok := groups[origin]
		if !ok {
			g = &group{}
			groups[origin] = g
		}

		d, valid := utils.ParseDate(row[0])
		g.rows = append(g.rows, i)
		g.dates = append(g.dates, d)
		g.valid = append(g.valid, valid)

		if valid && (!g.has || d.After(g.max)) {
			g.max = d
			g.has = true
		}
	}

	origins := make([]string, 0, len(groups))
	for origin := range groups {
		origins = append(origins, origin)
	}
	sort.Strings(origins)

	for _, origin := range origins {
		g := groups[origin]
		if !g.has {
			continue
		}
		for k, i := range g.rows {
			if g.valid[k] && g.dates[k].Equal(g.max) {
				monthly.Rows = append(monthly.Rows, daily.Rows[i])
			}
		}
	}

	return monthly
}

// LastDate retorna a maior data da primeira coluna da tabela
func LastDate(tbl *domain.Table) (time.Time, bool) {
	var (
		latest time.Time
		has    bool
	)
	for _, row := range tbl.Rows {
		if len(row) == 0 {
			continue
		}
		if d, ok := utils.ParseDate(row[0]); ok && (!has || d.After(latest)) {
			latest, has = d, true
		}
	}
	return latest, has
}
