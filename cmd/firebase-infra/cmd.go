package main

import (
	"github.com/stepanic/flutter-firebase-starter/internal/cli"
)

func main() {
	cli.Execute()
}
