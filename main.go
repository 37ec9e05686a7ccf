package main

import "github.com/KaramelBytes/loaneda-cli/cmd"

func main() {
	cmd.Execute()
}
