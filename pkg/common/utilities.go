package common

import (
	log "github.com/sirupsen/logrus"
)

// Check aborts the process on a startup error that leaves nothing to run.
func Check(e error) {
	if e != nil {
		log.Fatal(e)
	}
}
