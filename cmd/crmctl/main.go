package main

import "github.com/xavierca1/nexus-crm/internal/cli"

func main() {
	cli.Execute()
}
