package main

import "github.com/Dev-JBA/JBAAI-WEB-VIEW/cmd/miniapp/cmd"

func main() {
	cmd.Execute()
}
