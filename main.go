package main

import "github.com/voltlabs/cebridge/cmd"

func main() {
	cmd.Execute()
}
