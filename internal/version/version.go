package version

import (
	"fmt"
	"strconv"
	"time"
)

// Version is the application version. Can be overridden at build time via:
//
//	go build -ldflags "-X winsbygroup.com/reviewserver/internal/version.Version=1.2.3"
var Version = "1.0"

// RepoURL is the project repository URL. Can be overridden at build time via:
//
//	go build -ldflags "-X winsbygroup.com/reviewserver/internal/version.RepoURL=https://github.com/yourfork/reviewserver"
var RepoURL = "https://github.com/winsbygroup/reviewserver"

// Banner prints identifying information about the server.
func Banner() string {
	y := strconv.Itoa(time.Now().Year())
	copyright := "Copyright 2025-" + y + " Winsby Group LLC. All rights reserved."

	return fmt.Sprintf("%s\nReviewserver (v%s)\n%s\n", product(), Version, copyright)
}

// String returns the short "reviewserver vX" form used by the CLI.
func String() string {
	return "reviewserver v" + Version
}

func product() string {
	// figlet Standard font, letters set without smushing
	const s = `
  ____                _
 |  _ \   ___ __   __(_)  ___ __      __ ___   ___  _ __ __   __  ___  _ __
 | |_) | / _ \\ \ / /| | / _ \\ \ /\ / // __| / _ \| '__|\ \ / / / _ \| '__|
 |  _ < |  __/ \ V / | ||  __/ \ V  V / \__ \|  __/| |    \ V / |  __/| |
 |_| \_\ \___|  \_/  |_| \___|  \_/\_/  |___/ \___||_|     \_/   \___||_|
`
	return s
}
