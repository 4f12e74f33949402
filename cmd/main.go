package main

import (
	cmd "github.com/littleroot/bookpress/cmd/bookpress"
)

func main() {
	cmd.Execute()
}
