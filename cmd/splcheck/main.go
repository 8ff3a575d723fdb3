package main

import "github.com/panyam/splcheck/cmd/splcheck/commands"

func main() {
	commands.Execute()
}
