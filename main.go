package main

import "github.com/pydepsync/pydepsync/cmd"

func main() {
	cmd.Execute()
}
