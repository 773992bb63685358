package main

import "github.com/harborstats/ukproj/cmd"

func main() {
	cmd.Execute()
}
