package main

import (
	"fmt"
	"time"
)

//go:generate go run github.com/sublee/clonegen/cmd/clonegen .

//clonegen:derive
type Job struct {
	ID      int
	Tags    []string
	Timeout time.Duration
	Parent  *Job
}

//clonegen:derive
type Queue struct {
	Name    string
	Jobs    []Job
	ByOwner map[string][]int
}

func main() {
	root := &Job{ID: 1}
	q := Queue{
		Name:    "default",
		Jobs:    []Job{{ID: 2, Tags: []string{"nightly"}, Timeout: time.Minute, Parent: root}},
		ByOwner: map[string][]int{"alice": {2}},
	}

	// Take a snapshot, then mutate the original.
	snapshot := q.Clone()
	q.Jobs[0].Tags[0] = "hourly"
	q.ByOwner["alice"][0] = 3
	fmt.Println(snapshot.Jobs[0].Tags[0], snapshot.ByOwner["alice"][0], snapshot.Jobs[0].Parent == root)

	// Refresh the snapshot in place. Its slices keep their backing arrays.
	tags := snapshot.Jobs[0].Tags
	snapshot.CloneFrom(&q)
	fmt.Println(snapshot.Jobs[0].Tags[0], snapshot.ByOwner["alice"][0], &tags[0] == &snapshot.Jobs[0].Tags[0])

	// Output:
	// nightly 2 true
	// hourly 3 true
}
