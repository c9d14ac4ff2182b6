package main

import "priority-tasks.com/priority-tasks/cmd"

func main() {
	cmd.Execute()
}
