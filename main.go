package main

import "site-content/cmd"

func main() {
	cmd.Execute()
}
