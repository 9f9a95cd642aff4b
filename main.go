package main

import (
	"mediascope/cmd"
)

func main() {
	cmd.Execute()
}
