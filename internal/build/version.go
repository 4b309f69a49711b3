package build

import "fmt"

// Set at link time with -ldflags "-X github.com/bornholm/pdfsplit/internal/build.ShortVersion=..."
var (
	ShortVersion = "dev"
	GitRef       = "unknown"
	ProjectURL   = "https://github.com/bornholm/pdfsplit"
)

var LongVersion = fmt.Sprintf("%s (%s, %s)", ShortVersion, GitRef, ProjectURL)
