package serviceimpl

import (
	"os"
	"testing"

	"faceregistry/pkg/logger"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "faceregistry-logs")
	if err != nil {
		panic(err)
	}
	if err := logger.Init(dir, false); err != nil {
		panic(err)
	}

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}
