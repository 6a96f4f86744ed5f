// Command fwdeploy copies the Carthage frameworks an Xcode target needs,
// including the ones it only depends on transitively.
//
// Run it from a Run Script build phase listing the directly linked
// frameworks as input files:
//
//	fwdeploy            # resolve and copy
//	fwdeploy -v resolve # print the closure without copying
package main

import (
	"flag"

	"github.com/fredrikaverpil/fwdeploy"
	"github.com/goyek/goyek/v3"
	"github.com/goyek/x/boot"
)

var opts fwdeploy.Options

func init() {
	flag.StringVar(&opts.ConfigFile, "config", "", "settings `file` (default "+fwdeploy.DefaultSettingsFile+" if present)")
	flag.StringVar(&opts.EnvFile, "env-file", "", "replay a captured build environment from a dotenv `file`")
}

var t = fwdeploy.NewTasks(&opts)

func main() {
	goyek.SetDefault(t.Copy)
	boot.Main()
}
