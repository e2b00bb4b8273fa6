package main

import "github.com/platefeed/platefeed/cmd/platefeed/commands"

func main() {
	commands.Execute()
}
