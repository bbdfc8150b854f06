package main

import "github.com/Sebastien-Hanne/module4-nodejs-threadapi/cmd"

func main() {
	cmd.Execute()
}
