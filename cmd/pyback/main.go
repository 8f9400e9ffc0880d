package main

import "pyback/cmd/pyback/commands"

func main() {
	commands.Execute()
}
