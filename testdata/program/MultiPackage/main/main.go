package main

import (
	"fmt"
	"time"

	m "example.com/MultiPackage/model"
)

//clonegen:derive
type Log struct {
	Events []m.Event
	Latest m.Box[m.Event]
	Start  time.Time
}

func main() {
	start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	l := Log{
		Events: []m.Event{{At: start, Every: time.Minute, Tags: []string{"a"}}},
		Latest: m.Box[m.Event]{V: m.Event{Tags: []string{"b"}}},
		Start:  start,
	}

	c := l.Clone()
	c.Events[0].Tags[0] = "x"
	c.Latest.V.Tags[0] = "y"
	fmt.Println(l.Events[0].Tags[0], l.Latest.V.Tags[0], c.Events[0].Tags[0], c.Latest.V.Tags[0])
	fmt.Println(c.Start.Equal(start), c.Events[0].Every)

	var dst Log
	dst.CloneFrom(&l)
	fmt.Println(dst.Events[0].At.Year(), dst.Latest.V.Tags)
}
