package main

import "property-search/commands"

func main() {
	commands.Execute()
}
