package main

import "storyreel/internal/cli"

func main() {
	cli.Execute()
}
