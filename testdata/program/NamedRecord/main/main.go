package main

import "fmt"

//clonegen:derive
type User struct {
	Name    string
	Tags    []string
	Manager *User
}

func main() {
	boss := &User{Name: "boss"}
	u := User{Name: "alice", Tags: []string{"a", "b"}, Manager: boss}

	// Tags are cloned, Manager is shared.
	c := u.Clone()
	c.Tags[0] = "z"
	fmt.Println(u.Tags[0], c.Tags[0])
	fmt.Println(c.Manager == u.Manager)

	// CloneFrom reuses the backing array of dst.
	dst := User{Tags: make([]string, 0, 8)}
	backing := &dst.Tags[:1][0]
	dst.CloneFrom(&u)
	fmt.Println(dst.Name, dst.Tags, &dst.Tags[0] == backing, dst.Manager == boss)

	// Overwriting twice gives the same result.
	dst.CloneFrom(&u)
	fmt.Println(dst.Name, dst.Tags, cap(dst.Tags))

	// A nil slice stays nil.
	var empty User
	fmt.Println(empty.Clone().Tags == nil)
}
