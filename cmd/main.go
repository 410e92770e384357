package main

import "cureconnect/cmd/commands"

func main() {
	commands.Execute()
}
