package main

import "github.com/unixv6fs/unixv6fs/cmd/unixv6"

func main() {
	cmd.Execute()
}
