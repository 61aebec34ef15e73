// Package misc carries build identity shared by every command. The values
// are set at link time.
package misc

var (
	appName = "ecss"
	version = "0.0.0-dev"
	gitHash = "unknown"
)

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}
