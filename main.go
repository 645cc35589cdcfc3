package main

import "github.com/lustre-atelier/backoffice/cmd"

func main() {
	cmd.Execute()
}
