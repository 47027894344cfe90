package main

import (
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	logger = getLogger(false)
	os.Exit(m.Run())
}
