package tests

import (
	"os"
	"testing"

	"github.com/trezcool/shule/core"
)

func TestMain(m *testing.M) {
	core.Conf.Set("debug", false)
	core.Conf.Set("testMode", true)

	os.Exit(m.Run())
}
