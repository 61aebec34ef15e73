package state

import (
	"time"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start: time.Now(),
		// applied under every user stylesheet so scenes always have a
		// workable baseline
		DefaultSheet: []byte(`node {
	display: flex;
	flex-direction: column;
	align-items: stretch;
}

text {
	font-size: 14;
	color: black;
	text-align: left;
}
`),
	}
}
