package build

import (
	"path/filepath"
	"sort"

	ferrors "git.home.luguber.info/inful/tinypub/internal/foundation/errors"
)

// ValidateTargets rejects builds where two jobs, or one job twice, declare the
// same target path.
func ValidateTargets(jobs []Job) error {
	owners := make(map[string]string)
	for _, job := range jobs {
		for _, target := range job.Targets {
			clean := filepath.Clean(target)
			if owner, exists := owners[clean]; exists {
				return ferrors.BuildError("duplicate build target").
					WithContext("target", clean).
					WithContext("jobs", []string{owner, job.FullName()}).
					Build()
			}
			owners[clean] = job.FullName()
		}
	}
	return nil
}

// Order sorts jobs so every job follows the jobs it depends on. Jobs without
// mutual dependencies keep their input order.
func Order(jobs []Job) ([]Job, error) {
	byName := make(map[string][]int)
	seenNames := make(map[string]int)
	for i, job := range jobs {
		full := job.FullName()
		if prev, dup := seenNames[full]; dup {
			return nil, ferrors.BuildError("duplicate job name").
				WithContext("job", full).
				WithContext("indexes", []int{prev, i}).
				Build()
		}
		seenNames[full] = i
		byName[full] = append(byName[full], i)
		if job.Name != "" {
			byName[job.Basename] = append(byName[job.Basename], i)
		}
	}

	const (
		unvisited = iota
		visiting
		done
	)
	marks := make([]int, len(jobs))
	ordered := make([]Job, 0, len(jobs))

	var visit func(i int, path []string) error
	visit = func(i int, path []string) error {
		switch marks[i] {
		case done:
			return nil
		case visiting:
			return ferrors.BuildError("dependency cycle between jobs").
				WithContext("cycle", append(path, jobs[i].FullName())).
				Build()
		}
		marks[i] = visiting
		path = append(path, jobs[i].FullName())

		deps := append([]string(nil), jobs[i].TaskDeps...)
		sort.Strings(deps)
		for _, dep := range deps {
			for _, j := range byName[dep] {
				if j == i {
					continue
				}
				if err := visit(j, path); err != nil {
					return err
				}
			}
		}
		marks[i] = done
		ordered = append(ordered, jobs[i])
		return nil
	}

	for i := range jobs {
		if err := visit(i, nil); err != nil {
			return nil, err
		}
	}
	return ordered, nil
}
