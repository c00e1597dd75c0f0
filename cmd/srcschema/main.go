package main

import "github.com/srcschema/srcschema/internal/cli"

func main() {
	cli.Execute()
}
