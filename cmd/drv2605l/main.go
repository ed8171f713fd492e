package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	err := newApp(os.Stdout).execute(os.Args[1:])
	if err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
