package build

import (
	"testing"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/tinypub/internal/foundation/errors"
)

func names(jobs []Job) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.FullName()
	}
	return out
}

func TestValidateTargets(t *testing.T) {
	ok := []Job{
		{Basename: "tinypub", Name: "a", Targets: []string{"out/a"}},
		{Basename: "tinypub", Name: "b", Targets: []string{"out/b", "out/c"}},
	}
	require.NoError(t, ValidateTargets(ok))

	dup := append(ok, Job{Basename: "tinypub", Name: "c", Targets: []string{"out/./c"}})
	err := ValidateTargets(dup)
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryBuild))
}

func TestOrder_KeepsInputOrderWithoutDeps(t *testing.T) {
	jobs := []Job{
		{Basename: "tinypub", Name: "webfinger", TaskDeps: []string{"render_posts"}},
		{Basename: "tinypub", Name: "actor.jsonld", TaskDeps: []string{"render_posts"}},
	}
	ordered, err := Order(jobs)
	require.NoError(t, err)
	require.Equal(t, []string{"tinypub:webfinger", "tinypub:actor.jsonld"}, names(ordered))
}

func TestOrder_DependenciesFirst(t *testing.T) {
	jobs := []Job{
		{Basename: "publish", Name: "x", TaskDeps: []string{"tinypub"}},
		{Basename: "tinypub", Name: "a"},
		{Basename: "tinypub", Name: "b", TaskDeps: []string{"render:c"}},
		{Basename: "render", Name: "c"},
	}
	ordered, err := Order(jobs)
	require.NoError(t, err)
	require.Equal(t, []string{"tinypub:a", "render:c", "tinypub:b", "publish:x"}, names(ordered))
}

func TestOrder_Cycle(t *testing.T) {
	jobs := []Job{
		{Basename: "a", TaskDeps: []string{"b"}},
		{Basename: "b", TaskDeps: []string{"a"}},
	}
	_, err := Order(jobs)
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryBuild))
}

func TestOrder_DuplicateName(t *testing.T) {
	_, err := Order([]Job{{Basename: "a", Name: "x"}, {Basename: "a", Name: "x"}})
	require.Error(t, err)
}
