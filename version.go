package conceptcard

// Version information for conceptcard.
// These values can be overridden at build time using ldflags:
//
//	go build -ldflags "-X github.com/ZaguanLabs/conceptcard.GitCommit=abc1234"
const (
	// Name is the application name.
	Name = "conceptcard"

	// Description is a short description of the application.
	Description = "Why/How/What concept cards from interchangeable AI providers"

	// Version is the semantic version of the application.
	Version = "0.3.0"

	// Repository is the source code repository URL.
	Repository = "https://github.com/ZaguanLabs/conceptcard"
)

// BuildInfo contains build-time information set via ldflags.
var (
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// FullVersion returns the version string with the short commit appended
// when known.
func FullVersion() string {
	v := Version
	if GitCommit != "unknown" && GitCommit != "" {
		short := GitCommit
		if len(short) > 7 {
			short = short[:7]
		}
		v += "+" + short
	}
	return v
}

// UserAgent returns the User-Agent sent on provider and proxy requests.
func UserAgent() string {
	return Name + "/" + Version
}
