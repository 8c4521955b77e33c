package version

var (
	// GitCommit is the current HEAD set using ldflags.
	GitCommit string

	// Version is the built software version.
	Version = StatelessSemVer
)

func init() {
	if GitCommit != "" {
		Version += "-" + GitCommit
	}
}

// StatelessSemVer is the current semantic version of the verifying client.
const StatelessSemVer = "0.1.0"
