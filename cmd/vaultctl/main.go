package main

import "github.com/pytact/docvault/cmd/vaultctl/cmd"

func main() {
	cmd.Execute()
}
