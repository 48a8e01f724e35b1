package main

import "github.com/astny1/PRODIGY-CS-04/cmd"

func main() {
	cmd.Execute()
}
