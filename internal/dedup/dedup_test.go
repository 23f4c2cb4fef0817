package dedup

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"songdb/internal/songs"
)

func song(id string, line int) songs.Song {
	return songs.Song{MusicID: id, Artist: "a", Title: "t", Start: "0:00", Line: line}
}

func TestFind(t *testing.T) {
	t.Parallel()

	got := Find([]songs.Song{
		song("001", 2),
		song("002", 3),
		song("001", 4),
		song("003", 5),
		song("002", 6),
		song("001", 7),
	})
	require.Equal(t, []Duplicate{
		{MusicID: "001", Line: 4, FirstLine: 2},
		{MusicID: "002", Line: 6, FirstLine: 3},
		{MusicID: "001", Line: 7, FirstLine: 2},
	}, got)
}

func TestFind_NoDuplicates(t *testing.T) {
	t.Parallel()

	require.Empty(t, Find(nil))
	require.Empty(t, Find([]songs.Song{song("1", 2), song("01", 3), song("1 ", 4)}))
}

func TestIndexAdd(t *testing.T) {
	t.Parallel()

	ix := NewIndex(0)
	for i := 0; i < 500; i++ {
		_, dup := ix.Add(strconv.Itoa(i), i+2)
		require.False(t, dup)
	}
	first, dup := ix.Add("42", 900)
	require.True(t, dup)
	require.Equal(t, 44, first)

	first, dup = ix.Add("", 901)
	require.False(t, dup)
	require.Zero(t, first)
}

func TestSummary(t *testing.T) {
	t.Parallel()

	ds := []Duplicate{
		{MusicID: "001", Line: 4, FirstLine: 2},
		{MusicID: "002", Line: 6, FirstLine: 3},
		{MusicID: "001", Line: 7, FirstLine: 2},
	}
	require.Equal(t, `line 4 duplicates line 2 (music_id "001"); and 2 more`, Summary(ds, 1))
	require.Equal(t,
		`line 4 duplicates line 2 (music_id "001"); line 6 duplicates line 3 (music_id "002"); line 7 duplicates line 2 (music_id "001")`,
		Summary(ds, 0))
	require.Empty(t, Summary(nil, 3))
}

func BenchmarkFind(b *testing.B) {
	ss := make([]songs.Song, 5000)
	for i := range ss {
		ss[i] = song(strconv.Itoa(i%4000), i+2)
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Find(ss)
	}
}
