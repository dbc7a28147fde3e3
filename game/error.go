package game

const (
	ErrorMissingSettings       = "no %s settings for traversal kind %v"
	ErrorMissingMontage        = "%s settings for traversal kind %v have no montage"
	ErrorDegenerateRootMotion  = "montage %q has no vertical root motion (end z=%.4f)"
	ErrorMontagePlayback       = "montage %q could not be played from %.3fs"
	ErrorInvalidTargetSurface  = "target surface %v is no longer valid"
	ErrorUnknownTraversal      = "unknown traversal action %d"
	ErrorServerStartRejected   = "server rejected %s start from %s"
	ErrorRateLimited           = "start request from %s dropped by rate limit"
	ErrorDecodePayload         = "unable to decode traversal payload: %v"
	ErrorInternalDoubleAttach  = "root motion source %d already attached while starting %s"
	ErrorInternalNilMovement   = "character %q has no movement component"
	ErrorInternalUnknownSource = "root motion source %d is not registered"
)
