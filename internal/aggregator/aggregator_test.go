package aggregator

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thep200/github-analyzer/internal/model"
)

func TestAggregateCountsByPrimaryLanguage(t *testing.T) {
	repos := []model.Repo{
		{Name: "a", Language: "Go"},
		{Name: "b", Language: "Go"},
		{Name: "c", Language: "Rust"},
	}

	stats := Aggregate(repos, Options{})

	assert.Len(t, stats, 2)
	assert.Equal(t, 2, stats["Go"].RepoCount)
	assert.Equal(t, 1, stats["Rust"].RepoCount)
}

func TestAggregateIsOrderIndependent(t *testing.T) {
	repos := []model.Repo{
		{Name: "a", Language: "Go", Languages: map[string]int64{"Go": 1200, "Makefile": 80}},
		{Name: "b", Language: "Go", Languages: map[string]int64{"Go": 300}},
		{Name: "c", Language: "Rust", Languages: map[string]int64{"Rust": 900}},
		{Name: "d", Language: "Python"},
		{Name: "e"},
	}

	want := Aggregate(repos, Options{})

	for i := 0; i < 10; i++ {
		shuffled := make([]model.Repo, len(repos))
		copy(shuffled, repos)
		rand.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		assert.Equal(t, want, Aggregate(shuffled, Options{}))
	}
}

func TestAggregateSumsBytesPerLanguage(t *testing.T) {
	repos := []model.Repo{
		{Name: "a", Languages: map[string]int64{"Go": 1000, "Shell": 50}},
		{Name: "b", Languages: map[string]int64{"Go": 500}},
	}

	stats := Aggregate(repos, Options{})

	assert.Equal(t, Stat{RepoCount: 2, TotalBytes: 1500}, stats["Go"])
	assert.Equal(t, Stat{RepoCount: 1, TotalBytes: 50}, stats["Shell"])
}

func TestAggregateSkipsReposWithoutLanguage(t *testing.T) {
	repos := []model.Repo{
		{Name: "empty"},
		{Name: "docs-only"},
	}

	stats := Aggregate(repos, Options{})

	assert.Empty(t, stats)
}

func TestAggregateExcludeForks(t *testing.T) {
	repos := []model.Repo{
		{Name: "mine", Language: "Go"},
		{Name: "forked", Language: "Go", IsFork: true},
	}

	assert.Equal(t, 2, Aggregate(repos, Options{})["Go"].RepoCount)
	assert.Equal(t, 1, Aggregate(repos, Options{ExcludeForks: true})["Go"].RepoCount)
}

func TestTopOrdersByRepoCountThenName(t *testing.T) {
	stats := map[string]Stat{
		"Rust":   {RepoCount: 2},
		"Go":     {RepoCount: 5},
		"Python": {RepoCount: 2},
		"Shell":  {RepoCount: 1},
	}

	top := Top(stats, 3)

	assert.Len(t, top, 3)
	assert.Equal(t, "Go", top[0].Name)
	assert.Equal(t, "Python", top[1].Name)
	assert.Equal(t, "Rust", top[2].Name)
}

func TestTopWithoutLimitReturnsAll(t *testing.T) {
	stats := map[string]Stat{
		"Go":   {RepoCount: 1},
		"Rust": {RepoCount: 1},
	}

	assert.Len(t, Top(stats, 0), 2)
}
