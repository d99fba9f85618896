package constants

import "time"

const (
	DefaultRecomputeInterval = 1000 * time.Millisecond
	DefaultWindowSize        = 20
)

const (
	KafkaMinBytes = 1
	KafkaMaxBytes = 10e6
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	DefaultServerPort  = 8080
	DefaultReadTimeout = 10 * time.Second
)
