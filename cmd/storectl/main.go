package main

import "boutique-pos/cmd/storectl/commands"

func main() {
	commands.Execute()
}
