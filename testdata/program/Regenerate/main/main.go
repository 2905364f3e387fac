package main

import "fmt"

//clonegen:derive
type Settings struct {
	Name  string
	Hosts []string
	Ports map[string]int
}

func snapshot(s Settings) Settings { return s.Clone() }

func main() {
	s := Settings{Name: "prod", Hosts: []string{"a"}, Ports: map[string]int{"http": 80}}

	c := snapshot(s)
	c.Hosts[0] = "b"
	c.Ports["http"] = 8080
	fmt.Println(s.Hosts[0], s.Ports["http"], c.Hosts[0], c.Ports["http"])

	var dst Settings
	dst.CloneFrom(&s)
	fmt.Println(dst.Name, dst.Hosts, dst.Ports)
}
