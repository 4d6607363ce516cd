package analysis

import (
	"sort"
	"time"
)

type GenreCount struct {
	Genre string  `yaml:"genre" json:"genre"`
	Plays int     `yaml:"plays" json:"plays"`
	Hours float64 `yaml:"hours" json:"hours"`
}

// TopGenres counts every genre of every play. A play by an artist with three
// genres counts once for each.
func (a *Analyzer) TopGenres(limit int) (Ranking[GenreCount], error) {
	if a.genres == nil {
		return Ranking[GenreCount]{}, errNoGenres
	}

	index := make(map[string]int)
	var counts []GenreCount
	for _, p := range a.plays {
		for _, g := range a.genres[p.ID] {
			if g == "" {
				continue
			}
			i, ok := index[g]
			if !ok {
				i = len(counts)
				index[g] = i
				counts = append(counts, GenreCount{Genre: g})
			}
			counts[i].Plays++
			counts[i].Hours += p.Hours()
		}
	}

	byCount := append([]GenreCount(nil), counts...)
	sort.SliceStable(byCount, func(i, j int) bool { return byCount[i].Plays > byCount[j].Plays })
	byTime := append([]GenreCount(nil), counts...)
	sort.SliceStable(byTime, func(i, j int) bool { return byTime[i].Hours > byTime[j].Hours })
	if limit > 0 {
		byCount = byCount[:min(limit, len(byCount))]
		byTime = byTime[:min(limit, len(byTime))]
	}
	return Ranking[GenreCount]{ByCount: byCount, ByTime: byTime}, nil
}

type GenreDiversity struct {
	UniqueGenres int `yaml:"unique_genres" json:"unique_genres"`
	// MonthlyUnique counts distinct genres heard per month, keyed "2006-01".
	MonthlyUnique map[string]int `yaml:"monthly_unique" json:"monthly_unique"`
	// MonthlyDiscovery is the share of a month's genre plays made at the
	// moment that genre was first heard.
	MonthlyDiscovery map[string]float64 `yaml:"monthly_discovery_ratio" json:"monthly_discovery_ratio"`
}

func (a *Analyzer) GenreDiversity() (GenreDiversity, error) {
	if a.genres == nil {
		return GenreDiversity{}, errNoGenres
	}

	plays := append(a.plays[:0:0], a.plays...)
	sort.SliceStable(plays, func(i, j int) bool { return plays[i].EndTime.Before(plays[j].EndTime) })

	d := GenreDiversity{
		MonthlyUnique:    make(map[string]int),
		MonthlyDiscovery: make(map[string]float64),
	}
	// Every play at a genre's first timestamp counts as a discovery.
	firstHeard := make(map[string]time.Time)
	for _, p := range plays {
		for _, g := range a.genres[p.ID] {
			if _, ok := firstHeard[g]; g != "" && !ok {
				firstHeard[g] = p.EndTime
			}
		}
	}

	monthly := make(map[string]map[string]bool)
	listens := make(map[string]int)
	discovered := make(map[string]int)
	for _, p := range plays {
		month := p.EndTime.Format("2006-01")
		for _, g := range a.genres[p.ID] {
			if g == "" {
				continue
			}
			if monthly[month] == nil {
				monthly[month] = make(map[string]bool)
			}
			monthly[month][g] = true
			listens[month]++
			if p.EndTime.Equal(firstHeard[g]) {
				discovered[month]++
			}
		}
	}

	d.UniqueGenres = len(firstHeard)
	for month, genres := range monthly {
		d.MonthlyUnique[month] = len(genres)
		d.MonthlyDiscovery[month] = float64(discovered[month]) / float64(listens[month])
	}
	return d, nil
}
