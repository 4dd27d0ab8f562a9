package main

import "github.com/spaghettifunk/rendercost/cli"

func main() {
	cli.Execute()
}
