package main

import (
	"log"
)

// injected at build time with ldflags. see Makefile.
var (
	GitCommit string
	GitTag    string
	BuildTime string
)

// @title Reading List API
// @version 1.0
// @description Personal reading list tracker api.
// @BasePath /
func main() {
	app, err := NewApp()
	if err != nil {
		log.Fatal("application failed to initialized: ", err)
	}
	err = app.Run()
	if err != nil {
		log.Fatal("application exited. check logs for more details.", err)
	}
}
