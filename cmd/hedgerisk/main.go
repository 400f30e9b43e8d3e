package main

import "hedgerisk/internal/cli"

func main() {
	cli.Execute()
}
