package auth

import "time"

// SetClock pins the service and signer clocks.
func SetClock(s *Service, now func() time.Time) {
	s.now = now
	s.signer.now = now
}
