package main

import "github.com/chrisdamba/foodreview/cmd"

func main() {
	cmd.Execute()
}
