package main

import (
	"os"

	"weeklyplan/cmd/weeklyplan/commands"
)

func main() {
	os.Exit(commands.Execute())
}
