package main

import "github.com/frahmantamala/expenses-tracker/cmd"

func main() {
	cmd.Execute()
}
