package main

import "simviz/windows"

func main() {
	windows.CreateMainWindow()
}
